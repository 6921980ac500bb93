package build

import "time"

// Phase outcome statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Result captures the outcome of a lifecycle run.
type Result struct {
	Phases   []PhaseResult
	Duration time.Duration
}

// PhaseResult captures the outcome of a single lifecycle phase.
type PhaseResult struct {
	Phase    Phase
	Status   string // "success", "failed", "skipped"
	Detail   string // short human note, e.g. why a phase was skipped
	Duration time.Duration
	Error    error
}

// Failed reports whether any phase failed.
func (r *Result) Failed() bool {
	for _, p := range r.Phases {
		if p.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Status returns the overall status of the run.
func (r *Result) Status() string {
	if r.Failed() {
		return StatusFailed
	}
	return StatusSuccess
}
