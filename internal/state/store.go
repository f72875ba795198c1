// Package state records analysis run history in a SQLite database.
// This is bookkeeping about engine invocations, not graph persistence.
package state

import "time"

// RunStatus is the lifecycle state of an analysis run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded engine invocation.
type Run struct {
	ID              string
	RecordsPath     string
	Status          RunStatus
	Packages        int
	SharedResources int
	Risks           int
	EdgesAdded      int
	StartedAt       time.Time
	CompletedAt     *time.Time
	Error           string
}

// RunSummary carries the counters recorded when a run completes.
type RunSummary struct {
	Packages        int
	SharedResources int
	Risks           int
	EdgesAdded      int
}

// Store persists run history.
type Store interface {
	CreateRun(recordsPath string) (*Run, error)
	CompleteRun(id string, status RunStatus, summary RunSummary, errMsg string) error
	GetRun(id string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)
	Close() error
}
