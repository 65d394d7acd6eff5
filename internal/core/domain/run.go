package domain

import "time"

// RunState is a state of the detection run state machine.
type RunState string

// Run states.
const (
	RunSelecting   RunState = "SELECTING"
	RunClassifying RunState = "CLASSIFYING"
	RunPersisting  RunState = "PERSISTING"
	RunDone        RunState = "DONE"
	RunFailed      RunState = "FAILED"
)

// IsTerminal returns true for DONE and FAILED.
func (s RunState) IsTerminal() bool {
	return s == RunDone || s == RunFailed
}

// VerdictSource tells where a candidate's verdict came from.
type VerdictSource string

// Verdict sources.
const (
	SourceOracle     VerdictSource = "oracle"
	SourceClassifier VerdictSource = "classifier"
)

// CandidateOutcome is the verdict reached for one candidate.
type CandidateOutcome struct {
	Candidate CandidateObject
	Record    FrameworkRecord
	Source    VerdictSource

	// Persisted is false when persistence is disabled or the write failed.
	Persisted bool
}

// DetectionRun is the result of one orchestrator run.
type DetectionRun struct {
	ID          string
	Application string
	Language    string
	State       RunState
	StartedAt   time.Time
	FinishedAt  time.Time

	// Candidates is the number of selected candidates.
	Candidates int

	Outcomes []CandidateOutcome
	Failures []Failure

	// Err is set when the run FAILED.
	Err error

	// Report is the summary built when the run ended.
	Report *RunReport
}

// DetectedFrameworks returns the names of candidates judged FRAMEWORK.
func (r *DetectionRun) DetectedFrameworks() []string {
	names := make([]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Record.Type == FrameworkTypeFramework {
			names = append(names, o.Record.Name)
		}
	}
	return names
}

// Duration returns how long the run took.
func (r *DetectionRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunReport is the summary artifact of a run.
type RunReport struct {
	RunID       string
	Application string
	Language    string
	State       RunState
	StartedAt   time.Time
	FinishedAt  time.Time
	Candidates  int

	// ByVerdict counts outcomes per framework type.
	ByVerdict map[FrameworkType]int

	// BySource counts outcomes per verdict source.
	BySource map[VerdictSource]int

	// ByFailure counts recorded failures per kind.
	ByFailure map[FailureKind]int

	Frameworks []string
	Entries    []ReportEntry
	Failures   []ReportFailure
	Error      string

	// Location is where the report was written, if anywhere.
	Location string
}

// ReportEntry is one candidate line of a report.
type ReportEntry struct {
	Name         string
	FullName     string
	InternalType string
	Verdict      FrameworkType
	Score        float64
	Source       VerdictSource
	Persisted    bool
}

// ReportFailure is one failure line of a report.
type ReportFailure struct {
	Kind         FailureKind
	Candidate    string
	InternalType string
	Message      string
}
