package output

// SchemaVersion is the version of the NDJSON output schema. Bump it on
// breaking changes so consumers can detect them.
const SchemaVersion = 1
