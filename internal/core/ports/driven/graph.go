package driven

import (
	"context"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// GraphStore reads code objects from the analysed application graph.
type GraphStore interface {
	// FindCandidates returns the external objects matching the query.
	FindCandidates(ctx context.Context, query domain.CandidateQuery) ([]domain.CandidateObject, error)

	// CountCandidates counts the external objects matching the query.
	CountCandidates(ctx context.Context, query domain.CandidateQuery) (int64, error)
}
