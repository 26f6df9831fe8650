package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/vburojevic/slotw/internal/domain"
)

// NDJSONWriter writes records as newline-delimited JSON
type NDJSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // chat text is passed through unescaped
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
	}
}

// EventOutput is one classified chat line
type EventOutput struct {
	Type          string `json:"type"` // Always "event"
	SchemaVersion int    `json:"schemaVersion"`
	SessionID     string `json:"session_id,omitempty"`
	ReceivedAt    string `json:"received_at"`
	Kind          string `json:"kind"`
	Amount        int    `json:"amount,omitempty"`
	Role          string `json:"role,omitempty"`
	ChatTime      string `json:"chat_time,omitempty"`
	Content       string `json:"content"`
}

// RoleOutput is one row of the role frequency table
type RoleOutput struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Rate  float64 `json:"rate"`
}

// StatsOutput carries running or final totals
type StatsOutput struct {
	Type          string       `json:"type"` // Always "stats"
	SchemaVersion int          `json:"schemaVersion"`
	SessionID     string       `json:"session_id,omitempty"`
	Spent         int          `json:"spent"`
	Gained        int          `json:"gained"`
	Net           int          `json:"net"`
	Spins         int          `json:"spins"`
	RoleHits      int          `json:"role_hits"`
	Roles         []RoleOutput `json:"roles"`
}

// NewStatsOutput converts a snapshot to its wire form with roles ranked
func NewStatsOutput(sessionID string, s domain.Snapshot) *StatsOutput {
	ranked := s.Ranked()
	roles := make([]RoleOutput, 0, len(ranked))
	for _, r := range ranked {
		roles = append(roles, RoleOutput{Name: r.Name, Count: r.Count, Rate: s.RoleRate(r.Count)})
	}
	return &StatsOutput{
		Type:          "stats",
		SchemaVersion: SchemaVersion,
		SessionID:     sessionID,
		Spent:         s.TotalSpent,
		Gained:        s.TotalGained,
		Net:           s.Net(),
		Spins:         s.SpinCount,
		RoleHits:      s.TotalRoleHits(),
		Roles:         roles,
	}
}

// SessionStartOutput marks the start of a watch session
type SessionStartOutput struct {
	Type          string `json:"type"` // Always "session_start"
	SchemaVersion int    `json:"schemaVersion"`
	SessionID     string `json:"session_id"`
	Slot          string `json:"slot"`
	Path          string `json:"path"`
	Encoding      string `json:"encoding,omitempty"`
	Interval      string `json:"interval"`
	StartedAt     string `json:"started_at"`
}

// SessionEndOutput marks the end of a watch session
type SessionEndOutput struct {
	Type            string       `json:"type"` // Always "session_end"
	SchemaVersion   int          `json:"schemaVersion"`
	SessionID       string       `json:"session_id"`
	Slot            string       `json:"slot"`
	Events          int          `json:"events"`
	DurationSeconds float64      `json:"duration_seconds"`
	SummaryPath     string       `json:"summary_path,omitempty"`
	LogPath         string       `json:"log_path,omitempty"`
	LogDisabled     bool         `json:"log_disabled,omitempty"`
	Stats           *StatsOutput `json:"stats"`
}

// HistoryOutput is a cross-session rollup
type HistoryOutput struct {
	Type          string       `json:"type"` // Always "history"
	SchemaVersion int          `json:"schemaVersion"`
	Slot          string       `json:"slot"`
	Files         int          `json:"files"`
	Used          int          `json:"used"`
	Skipped       []string     `json:"skipped,omitempty"`
	Stats         *StatsOutput `json:"stats"`
}

// ArchiveOutput describes one archived summary file
type ArchiveOutput struct {
	Type          string `json:"type"` // Always "archive"
	SchemaVersion int    `json:"schemaVersion"`
	Name          string `json:"name"`
	Path          string `json:"path"`
	Timestamp     string `json:"timestamp,omitempty"`
	Size          int64  `json:"size"`
}

// ErrorOutput reports a command failure
type ErrorOutput struct {
	Type          string `json:"type"` // Always "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// WarningOutput represents a warning message
type WarningOutput struct {
	Type          string `json:"type"` // Always "warning"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// InfoOutput represents an informational message
type InfoOutput struct {
	Type          string `json:"type"` // Always "info"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
}

// MetadataOutput describes the running binary
type MetadataOutput struct {
	Type          string `json:"type"` // Always "metadata"
	SchemaVersion int    `json:"schemaVersion"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
}

// WriteEvent outputs one classified event
func (w *NDJSONWriter) WriteEvent(sessionID string, at time.Time, ev domain.LogEvent) error {
	return w.encoder.Encode(&EventOutput{
		Type:          "event",
		SchemaVersion: SchemaVersion,
		SessionID:     sessionID,
		ReceivedAt:    at.Format(time.RFC3339Nano),
		Kind:          string(ev.Kind),
		Amount:        ev.Amount,
		Role:          ev.Role,
		ChatTime:      ev.Timestamp,
		Content:       ev.Content,
	})
}

// WriteStats outputs totals
func (w *NDJSONWriter) WriteStats(stats *StatsOutput) error {
	stats.Type = "stats"
	stats.SchemaVersion = SchemaVersion
	return w.encoder.Encode(stats)
}

// WriteSessionStart outputs a session start marker
func (w *NDJSONWriter) WriteSessionStart(s *SessionStartOutput) error {
	s.Type = "session_start"
	s.SchemaVersion = SchemaVersion
	return w.encoder.Encode(s)
}

// WriteSessionEnd outputs a session end marker
func (w *NDJSONWriter) WriteSessionEnd(s *SessionEndOutput) error {
	s.Type = "session_end"
	s.SchemaVersion = SchemaVersion
	return w.encoder.Encode(s)
}

// WriteHistory outputs a history rollup
func (w *NDJSONWriter) WriteHistory(h *HistoryOutput) error {
	h.Type = "history"
	h.SchemaVersion = SchemaVersion
	return w.encoder.Encode(h)
}

// WriteArchive outputs one archive listing entry
func (w *NDJSONWriter) WriteArchive(a *ArchiveOutput) error {
	a.Type = "archive"
	a.SchemaVersion = SchemaVersion
	return w.encoder.Encode(a)
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	out := &ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		out.Hint = hint[0]
	}
	return w.encoder.Encode(out)
}

// WriteWarning outputs a warning message
func (w *NDJSONWriter) WriteWarning(message string) error {
	return w.encoder.Encode(&WarningOutput{
		Type:          "warning",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteInfo outputs an informational message
func (w *NDJSONWriter) WriteInfo(message string) error {
	return w.encoder.Encode(&InfoOutput{
		Type:          "info",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteMetadata outputs build metadata
func (w *NDJSONWriter) WriteMetadata(version, commit string) error {
	return w.encoder.Encode(&MetadataOutput{
		Type:          "metadata",
		SchemaVersion: SchemaVersion,
		Version:       version,
		Commit:        commit,
	})
}

// WriteRaw outputs any value as one JSON line
func (w *NDJSONWriter) WriteRaw(v interface{}) error {
	return w.encoder.Encode(v)
}
