package driven

import (
	"context"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// ReportWriter stores run reports.
type ReportWriter interface {
	// Write stores the report and returns where it was written.
	Write(ctx context.Context, report *domain.RunReport) (string, error)
}

// Notifier tells people about finished runs.
type Notifier interface {
	// Notify sends the report summary.
	Notify(ctx context.Context, report *domain.RunReport) error
}
