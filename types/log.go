package types

import "time"

// LogEntry is an in-flight request/response audit record queued for the
// async logger. Bodies are pre-sanitized so file uploads never land in
// the log table.
type LogEntry struct {
	Method          string
	URL             string
	UserID          *uint
	RequestBody     string
	RequestHeaders  string
	ResponseBody    string
	ResponseHeaders string
	StatusCode      int
	CreatedAt       time.Time
}
