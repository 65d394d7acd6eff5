package domain

import "time"

// TaskIDOracleSync is the background task that pulls the oracle delta.
const TaskIDOracleSync = "oracle-sync"

// TaskHistoryLimit is how many results are kept per task.
const TaskHistoryLimit = 100

// ScheduledTask is the persisted state of a recurring background task.
type ScheduledTask struct {
	ID       string
	Name     string
	Interval time.Duration
	Enabled  bool

	LastRun     time.Time
	NextRun     time.Time
	LastSuccess time.Time

	// LastError is the message of the last failed run, cleared on success.
	LastError string
}

// Due reports whether the task should run at now.
func (t *ScheduledTask) Due(now time.Time) bool {
	return t.Enabled && !t.NextRun.After(now)
}

// Complete folds a finished run into the task and schedules the next one
// an interval after the run ended.
func (t *ScheduledTask) Complete(result TaskResult) {
	t.LastRun = result.StartedAt
	t.NextRun = result.EndedAt.Add(t.Interval)
	if result.Success {
		t.LastSuccess = result.EndedAt
		t.LastError = ""
		return
	}
	t.LastError = result.Error
}

// TaskResult is the outcome of one task run.
type TaskResult struct {
	TaskID    string
	StartedAt time.Time
	EndedAt   time.Time
	Success   bool
	Error     string

	// RecordsPulled counts the oracle records consumed by the run.
	RecordsPulled int
}

// Duration returns how long the run took.
func (r TaskResult) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// SchedulerConfig configures the background scheduler used by serve.
type SchedulerConfig struct {
	// OracleSyncInterval is the period of the oracle-sync task. Zero
	// disables it.
	OracleSyncInterval time.Duration
}

// NewSchedulerConfig returns the scheduler configuration for an oracle
// sync interval.
func NewSchedulerConfig(oracleSync time.Duration) SchedulerConfig {
	return SchedulerConfig{OracleSyncInterval: oracleSync}
}

// Enabled reports whether any task is scheduled.
func (c SchedulerConfig) Enabled() bool {
	return c.OracleSyncInterval > 0
}

// Tasks returns the tasks the configuration schedules, first run due now.
func (c SchedulerConfig) Tasks(now time.Time) []ScheduledTask {
	if c.OracleSyncInterval <= 0 {
		return nil
	}
	return []ScheduledTask{{
		ID:       TaskIDOracleSync,
		Name:     "Oracle Sync",
		Interval: c.OracleSyncInterval,
		Enabled:  true,
		NextRun:  now,
	}}
}
