// Package bayes implements a multinomial naive Bayes name classifier.
package bayes

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
)

// artifactVersion is bumped whenever the artifact layout changes.
const artifactVersion = 1

// Ensure the package types implement the interfaces.
var (
	_ driven.Model        = (*Model)(nil)
	_ driven.ModelTrainer = Trainer{}
)

// Model is a trained naive Bayes classifier. It is immutable once trained.
type Model struct {
	Version           int                                `json:"version"`
	CorpusFingerprint string                             `json:"corpusFingerprint"`
	Language          string                             `json:"language"`
	Documents         map[domain.Category]int            `json:"documents"`
	FeatureCounts     map[domain.Category]map[string]int `json:"featureCounts"`
	FeatureTotals     map[domain.Category]int            `json:"featureTotals"`
	Vocabulary        int                                `json:"vocabulary"`
}

// Trainer trains and decodes naive Bayes models.
type Trainer struct{}

// NewTrainer returns a naive Bayes trainer.
func NewTrainer() Trainer {
	return Trainer{}
}

// Train counts features per category over the corpus.
func (Trainer) Train(ctx context.Context, corpus domain.Corpus) (driven.Model, error) {
	if len(corpus.Samples) == 0 {
		return nil, fmt.Errorf("%w: empty corpus for %q", domain.ErrInvalidInput, corpus.Language)
	}

	m := &Model{
		Version:           artifactVersion,
		CorpusFingerprint: corpus.Fingerprint,
		Language:          corpus.Language,
		Documents:         make(map[domain.Category]int),
		FeatureCounts:     make(map[domain.Category]map[string]int),
		FeatureTotals:     make(map[domain.Category]int),
	}
	for _, c := range domain.Categories() {
		m.FeatureCounts[c] = make(map[string]int)
	}

	vocabulary := make(map[string]struct{})
	for i, s := range corpus.Samples {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !s.Category.IsValid() {
			return nil, fmt.Errorf("%w: sample %q has unknown category %q", domain.ErrInvalidInput, s.Text, s.Category)
		}

		m.Documents[s.Category]++
		for _, f := range Features(s.Text) {
			m.FeatureCounts[s.Category][f]++
			m.FeatureTotals[s.Category]++
			vocabulary[f] = struct{}{}
		}
	}
	m.Vocabulary = len(vocabulary)
	return m, nil
}

// Unmarshal decodes a JSON artifact.
func (Trainer) Unmarshal(data []byte) (driven.Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decoding model: %w", domain.ErrInvalidInput, err)
	}
	if m.Version != artifactVersion {
		return nil, fmt.Errorf("%w: model artifact version %d, want %d", domain.ErrInvalidInput, m.Version, artifactVersion)
	}
	if m.FeatureCounts == nil {
		m.FeatureCounts = make(map[domain.Category]map[string]int)
	}
	return &m, nil
}

// Predict returns the posterior probability of every category.
func (m *Model) Predict(text string) []domain.CategoryProbability {
	categories := domain.Categories()
	features := Features(text)

	var totalDocs int
	for _, c := range categories {
		totalDocs += m.Documents[c]
	}

	scores := make([]float64, len(categories))
	for i, c := range categories {
		// Laplace smoothing on priors and feature likelihoods
		score := math.Log(float64(m.Documents[c]+1) / float64(totalDocs+len(categories)))
		denominator := float64(m.FeatureTotals[c] + m.Vocabulary + 1)
		counts := m.FeatureCounts[c]
		for _, f := range features {
			score += math.Log(float64(counts[f]+1) / denominator)
		}
		scores[i] = score
	}

	return softmax(categories, scores)
}

// Fingerprint returns the fingerprint of the training corpus.
func (m *Model) Fingerprint() string {
	return m.CorpusFingerprint
}

// Marshal encodes the model as a JSON artifact.
func (m *Model) Marshal() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding model: %w", err)
	}
	return data, nil
}

func softmax(categories []domain.Category, logScores []float64) []domain.CategoryProbability {
	maxScore := math.Inf(-1)
	for _, s := range logScores {
		maxScore = math.Max(maxScore, s)
	}

	var sum float64
	exps := make([]float64, len(logScores))
	for i, s := range logScores {
		exps[i] = math.Exp(s - maxScore)
		sum += exps[i]
	}

	out := make([]domain.CategoryProbability, len(categories))
	for i, c := range categories {
		out[i] = domain.CategoryProbability{Category: c, Probability: exps[i] / sum}
	}
	return out
}
