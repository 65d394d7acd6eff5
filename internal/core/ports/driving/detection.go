package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// DetectionService runs framework detection over an application.
type DetectionService interface {
	// LaunchDetection runs the detection state machine once for an application.
	// A run that selected its candidates always returns a result, possibly with
	// recorded failures. Selection failures are returned as the error.
	LaunchDetection(ctx context.Context, application, language string) (*domain.DetectionRun, error)

	// TrainModel makes the classifier ready for a language and returns the
	// elapsed time. With force, the model is retrained even if one exists.
	TrainModel(ctx context.Context, language string, force bool) (time.Duration, error)

	// WatchCorpus retrains a language each time its corpus changes, until
	// ctx is cancelled. onTrained is called after every training pass.
	WatchCorpus(ctx context.Context, onTrained func(language string, elapsed time.Duration, err error)) error
}
