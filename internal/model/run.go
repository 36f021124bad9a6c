package model

import "time"

// RunStatus represents the current state of a sync run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is the persisted record of one sync run.
type Run struct {
	ID         string     `json:"id"`
	Status     RunStatus  `json:"status"`
	Result     *RunResult `json:"result,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at,omitempty"`
}

// RunResult holds the outcome counts and artifacts of one sync run.
type RunResult struct {
	Fetched      int    `json:"fetched"`
	FilteredOut  int    `json:"filtered_out"`
	Duplicates   int    `json:"duplicates"`
	Emitted      int    `json:"emitted"`
	OutputFile   string `json:"output_file,omitempty"`
	FTPDelivered bool   `json:"ftp_delivered"`
	SFDelivered  bool   `json:"sf_delivered"`
	AuditLogged  bool   `json:"audit_logged"`
	Error        string `json:"error,omitempty"`
}
