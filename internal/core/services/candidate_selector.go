package services

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
	"github.com/custodia-labs/artemis/internal/logger"
)

// ShuffleFunc permutes candidates in place.
type ShuffleFunc func(candidates []domain.CandidateObject)

// RandomShuffle is the default lookup order policy: candidates are visited
// in random order, so remote registries never see requests in graph order.
func RandomShuffle(candidates []domain.CandidateObject) {
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
}

// CandidateSelector reads the external objects of an application from the graph.
type CandidateSelector struct {
	graph   driven.GraphStore
	shuffle ShuffleFunc
}

// NewCandidateSelector creates a selector. A nil shuffle uses RandomShuffle.
func NewCandidateSelector(graph driven.GraphStore, shuffle ShuffleFunc) *CandidateSelector {
	if shuffle == nil {
		shuffle = RandomShuffle
	}
	return &CandidateSelector{graph: graph, shuffle: shuffle}
}

// Select returns every external candidate of the application matching the
// language profile, de-duplicated and shuffled.
func (s *CandidateSelector) Select(
	ctx context.Context,
	application string,
	profile domain.LanguageProfile,
) ([]domain.CandidateObject, error) {
	if s.graph == nil {
		return nil, fmt.Errorf("%w: graph store not configured", domain.ErrConfigurationMissing)
	}

	seen := make(map[string]struct{})
	var candidates []domain.CandidateObject
	for _, q := range profile.Queries(application) {
		found, err := s.graph.FindCandidates(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrGraphQuery, describeQuery(q), err)
		}
		for _, c := range found {
			if !c.External {
				continue
			}
			if _, dup := seen[c.Key()]; dup {
				continue
			}
			seen[c.Key()] = struct{}{}
			if c.Application == "" {
				c.Application = application
			}
			candidates = append(candidates, c)
		}
	}

	s.shuffle(candidates)
	logger.Debug("selected %d %s candidates in %s", len(candidates), profile.Name, application)
	return candidates, nil
}

// Count returns the number of candidates Select would return, without
// reading them.
func (s *CandidateSelector) Count(
	ctx context.Context,
	application string,
	profile domain.LanguageProfile,
) (int64, error) {
	if s.graph == nil {
		return 0, fmt.Errorf("%w: graph store not configured", domain.ErrConfigurationMissing)
	}

	var total int64
	for _, q := range profile.Queries(application) {
		n, err := s.graph.CountCandidates(ctx, q)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", domain.ErrGraphQuery, describeQuery(q), err)
		}
		total += n
	}
	return total, nil
}

func describeQuery(q domain.CandidateQuery) string {
	if q.InternalType != "" {
		return fmt.Sprintf("application %q internal type %q", q.Application, q.InternalType)
	}
	return fmt.Sprintf("application %q type containing %q", q.Application, q.TypeContains)
}
