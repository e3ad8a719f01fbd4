package scheduler

import (
	"context"
	"time"
)

// historyLimit bounds how many runs are kept per job
const historyLimit = 100

// Job is a unit of work the scheduler fires on a cron expression.
// Schedule uses the seconds-first format, e.g. "0 0 6 1 * *" or "@monthly".
type Job interface {
	Name() string
	Run(ctx context.Context) error
	Schedule() string
}

// JobResult is the outcome of one (possibly retried) job execution
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory keeps the most recent results of one job, oldest first
type JobHistory struct {
	Results []JobResult
}

// AddResult appends a result and drops the oldest beyond historyLimit
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)
	if over := len(h.Results) - historyLimit; over > 0 {
		h.Results = append(h.Results[:0:0], h.Results[over:]...)
	}
}

// GetLatestResults returns up to n most recent results, oldest first
func (h *JobHistory) GetLatestResults(n int) []JobResult {
	n = min(max(n, 0), len(h.Results))
	return h.Results[len(h.Results)-n:]
}

// GetFailedResults returns every failed result still in the window
func (h *JobHistory) GetFailedResults() []JobResult {
	var failed []JobResult
	for _, r := range h.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

// GetSuccessRate is successes / runs, 0 with no runs
func (h *JobHistory) GetSuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0
	}
	ok := len(h.Results) - len(h.GetFailedResults())
	return float64(ok) / float64(len(h.Results))
}

// snapshot copies the history so callers can read it without the scheduler lock
func (h *JobHistory) snapshot() *JobHistory {
	return &JobHistory{Results: append([]JobResult(nil), h.Results...)}
}
