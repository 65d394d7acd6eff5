package driven

import (
	"context"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// Model is a trained text classifier for one language.
// Implementations must be safe for concurrent Predict calls.
type Model interface {
	// Predict returns one probability per category, in any order.
	Predict(text string) []domain.CategoryProbability

	// Fingerprint returns the fingerprint of the corpus the model was trained on.
	Fingerprint() string

	// Marshal serialises the model into an artifact.
	Marshal() ([]byte, error)
}

// ModelTrainer trains and decodes models.
type ModelTrainer interface {
	// Train builds a model from a labelled corpus.
	Train(ctx context.Context, corpus domain.Corpus) (Model, error)

	// Unmarshal decodes an artifact produced by Model.Marshal.
	Unmarshal(data []byte) (Model, error)
}

// ModelStore persists model artifacts.
type ModelStore interface {
	// Load returns the artifact for a language. Returns domain.ErrNotFound if absent.
	Load(ctx context.Context, language string) ([]byte, error)

	// Save stores the artifact for a language.
	Save(ctx context.Context, language string, data []byte) error
}

// CorpusSource provides labelled training samples.
type CorpusSource interface {
	// Corpus returns the training corpus of a language.
	Corpus(ctx context.Context, language string) (domain.Corpus, error)
}

// CorpusWatcher reports corpus changes.
type CorpusWatcher interface {
	// Watch calls onChange with the language whose corpus changed,
	// until ctx is cancelled.
	Watch(ctx context.Context, onChange func(language string)) error
}
