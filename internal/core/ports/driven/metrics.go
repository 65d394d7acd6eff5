package driven

import (
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// MetricsRecorder records operational metrics.
type MetricsRecorder interface {
	// ObserveVerdict counts one candidate verdict.
	ObserveVerdict(language string, verdict domain.FrameworkType, source domain.VerdictSource)

	// ObserveFailure counts one recorded failure.
	ObserveFailure(kind domain.FailureKind)

	// ObserveRun counts one finished run.
	ObserveRun(language string, state domain.RunState, d time.Duration)

	// ObserveTraining records the duration of a training pass.
	ObserveTraining(language string, d time.Duration)

	// ObserveOracleCall counts one oracle request by operation and outcome.
	ObserveOracleCall(op string, err error)
}
