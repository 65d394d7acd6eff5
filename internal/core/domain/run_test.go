package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetectionRun_DetectedFrameworks(t *testing.T) {
	run := &DetectionRun{
		Outcomes: []CandidateOutcome{
			{Record: FrameworkRecord{Name: "Spring", Type: FrameworkTypeFramework}, Source: SourceOracle},
			{Record: FrameworkRecord{Name: "MyService", Type: FrameworkTypeNotFramework}},
			{Record: FrameworkRecord{Name: "Lodash", Type: FrameworkTypeFramework}},
			{Record: FrameworkRecord{Name: "Util", Type: FrameworkTypeToInvestigate}},
		},
	}

	assert.Equal(t, []string{"Spring", "Lodash"}, run.DetectedFrameworks())
}

func TestDetectionRun_Duration(t *testing.T) {
	start := time.Now()
	run := &DetectionRun{StartedAt: start}
	assert.Equal(t, time.Duration(0), run.Duration())

	run.FinishedAt = start.Add(2 * time.Second)
	assert.Equal(t, 2*time.Second, run.Duration())
}

func TestRunState_IsTerminal(t *testing.T) {
	assert.True(t, RunDone.IsTerminal())
	assert.True(t, RunFailed.IsTerminal())
	assert.False(t, RunSelecting.IsTerminal())
	assert.False(t, RunClassifying.IsTerminal())
	assert.False(t, RunPersisting.IsTerminal())
}
