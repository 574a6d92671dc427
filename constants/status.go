package constants

// RunStatus is the canonical status for rows in screening_run.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusRunning   RunStatus = "RUNNING"   // extraction/analysis in progress
	RunStatusExtracted RunStatus = "EXTRACTED" // stage 1 completed (corpus built)
	RunStatusAnalyzed  RunStatus = "ANALYZED"  // stage 2 completed (report reconciled)
	RunStatusFailed    RunStatus = "FAILED"    // terminal failure
)

// DefaultMaxResumes is the advisory soft limit on batch size. Exceeding it
// only produces a warning; the default is sized for 8k-context models.
const DefaultMaxResumes = 3
