package cli

// CLIError is a structured error used for consistent NDJSON/text emission.
// It has already been shown to the user when returned from a command.
type CLIError struct {
	Code    string
	Message string
	Hint    string
}

func (e *CLIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}
