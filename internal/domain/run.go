package domain

import "time"

// RunRecord is the run-log row for one invocation. It is served verbatim
// on the run-history endpoint.
type RunRecord struct {
	ID         string    `json:"id"`
	Command    string    `json:"command"`
	Status     string    `json:"status"`
	Stage      string    `json:"stage,omitempty"`
	RemoteFile string    `json:"remote_file,omitempty"`
	Table      string    `json:"table,omitempty"`
	RowsLoaded int64     `json:"rows_loaded"`
	Error      *string   `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
}
