// Package ingest holds what importers of third-party workout exports share.
package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int `json:"sessions_received"`
	SessionsSkipped  int `json:"sessions_skipped"`
	SetsReceived     int `json:"sets_received"`
	SetsWritten      int `json:"sets_written"`

	Message string `json:"message,omitempty"`
}
