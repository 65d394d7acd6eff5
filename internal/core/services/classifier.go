package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
	"github.com/custodia-labs/artemis/internal/logger"
)

// TextClassifier owns one trained model per language.
//
// Training and loading happen once per language under a per-language lock.
// Predictions only take a read lock and run concurrently.
type TextClassifier struct {
	corpus    driven.CorpusSource
	trainer   driven.ModelTrainer
	store     driven.ModelStore
	metrics   driven.MetricsRecorder
	threshold float64

	training *keyedMutex

	mu     sync.RWMutex
	models map[string]driven.Model
}

// NewTextClassifier creates a classifier. store and metrics may be nil.
func NewTextClassifier(
	corpus driven.CorpusSource,
	trainer driven.ModelTrainer,
	store driven.ModelStore,
	metrics driven.MetricsRecorder,
	threshold float64,
) *TextClassifier {
	return &TextClassifier{
		corpus:    corpus,
		trainer:   trainer,
		store:     store,
		metrics:   metrics,
		threshold: threshold,
		training:  newKeyedMutex(),
		models:    make(map[string]driven.Model),
	}
}

// Ready reports whether a model is loaded for the language.
func (c *TextClassifier) Ready(language string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.models[normaliseLanguage(language)]
	return ok
}

// EnsureReady makes a model available for the language. A stored artifact
// trained on the current corpus is reused; otherwise a model is trained and
// stored. Calling it again once ready is a no-op.
func (c *TextClassifier) EnsureReady(ctx context.Context, language string) error {
	language = normaliseLanguage(language)
	if c.Ready(language) {
		return nil
	}

	unlock := c.training.Lock(language)
	defer unlock()

	if c.Ready(language) {
		return nil
	}

	corpus, err := c.loadCorpus(ctx, language)
	if err != nil {
		return err
	}

	if model := c.loadStored(ctx, corpus); model != nil {
		c.setModel(language, model)
		logger.Info("loaded %s model from store", language)
		return nil
	}

	_, err = c.train(ctx, corpus)
	return err
}

// Train retrains the language model unconditionally and returns the
// training time.
func (c *TextClassifier) Train(ctx context.Context, language string) (time.Duration, error) {
	language = normaliseLanguage(language)

	unlock := c.training.Lock(language)
	defer unlock()

	corpus, err := c.loadCorpus(ctx, language)
	if err != nil {
		return 0, err
	}
	return c.train(ctx, corpus)
}

// Predict classifies text with the language model.
// Returns domain.ErrClassifierNotReady before a successful EnsureReady.
func (c *TextClassifier) Predict(_ context.Context, language, text string) (domain.ClassificationResult, error) {
	language = normaliseLanguage(language)

	c.mu.RLock()
	model, ok := c.models[language]
	c.mu.RUnlock()
	if !ok {
		return domain.ClassificationResult{}, fmt.Errorf("%w: %s", domain.ErrClassifierNotReady, language)
	}

	return domain.NewClassificationResult(model.Predict(text), c.threshold), nil
}

func (c *TextClassifier) loadCorpus(ctx context.Context, language string) (domain.Corpus, error) {
	if c.corpus == nil || c.trainer == nil {
		return domain.Corpus{}, fmt.Errorf("%w: corpus or trainer not configured", domain.ErrClassifierUnavailable)
	}
	corpus, err := c.corpus.Corpus(ctx, language)
	if err != nil {
		return domain.Corpus{}, fmt.Errorf("%w: load %s corpus: %w", domain.ErrClassifierUnavailable, language, err)
	}
	if len(corpus.Samples) == 0 {
		return domain.Corpus{}, fmt.Errorf("%w: %s corpus is empty", domain.ErrClassifierUnavailable, language)
	}
	corpus.Language = language
	return corpus, nil
}

// loadStored returns the stored model when it matches the corpus, or nil.
func (c *TextClassifier) loadStored(ctx context.Context, corpus domain.Corpus) driven.Model {
	if c.store == nil {
		return nil
	}

	data, err := c.store.Load(ctx, corpus.Language)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("load %s model: %v", corpus.Language, err)
		}
		return nil
	}

	model, err := c.trainer.Unmarshal(data)
	if err != nil {
		logger.Warn("decode %s model: %v", corpus.Language, err)
		return nil
	}
	if model.Fingerprint() != corpus.Fingerprint {
		logger.Info("stored %s model is stale, retraining", corpus.Language)
		return nil
	}
	return model
}

// train builds, stores and installs a model (caller holds the language lock).
func (c *TextClassifier) train(ctx context.Context, corpus domain.Corpus) (time.Duration, error) {
	logger.Section("Training " + corpus.Language)
	start := time.Now()

	model, err := c.trainer.Train(ctx, corpus)
	if err != nil {
		return 0, fmt.Errorf("%w: train %s: %w", domain.ErrClassifierUnavailable, corpus.Language, err)
	}
	elapsed := time.Since(start)

	if c.store != nil {
		data, err := model.Marshal()
		if err == nil {
			err = c.store.Save(ctx, corpus.Language, data)
		}
		if err != nil {
			logger.Warn("store %s model: %v", corpus.Language, err)
		}
	}

	c.setModel(corpus.Language, model)
	if c.metrics != nil {
		c.metrics.ObserveTraining(corpus.Language, elapsed)
	}
	logger.Info("trained %s model on %d samples in %s", corpus.Language, len(corpus.Samples), elapsed)
	return elapsed, nil
}

func (c *TextClassifier) setModel(language string, model driven.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models[language] = model
}

func normaliseLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}
