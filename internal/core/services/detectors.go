package services

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// Detector is the per-language detection variant.
type Detector interface {
	// Language returns the registry key of the variant.
	Language() string

	// Select returns the candidates of an application.
	Select(ctx context.Context, selector *CandidateSelector, application string) ([]domain.CandidateObject, error)

	// Classify runs the classifier on the text the variant derives from a candidate.
	Classify(ctx context.Context, classifier *TextClassifier, candidate domain.CandidateObject) (domain.ClassificationResult, error)

	// Verdict builds the record to store for a local classification.
	Verdict(candidate domain.CandidateObject, result domain.ClassificationResult, now time.Time) domain.FrameworkRecord
}

// languageDetector is a Detector driven by a language profile and a text extractor.
type languageDetector struct {
	profile domain.LanguageProfile
	text    func(domain.CandidateObject) string
}

// NewLanguageDetector creates a detector. text derives the classifier input
// from a candidate; nil uses the candidate name.
func NewLanguageDetector(profile domain.LanguageProfile, text func(domain.CandidateObject) string) Detector {
	if text == nil {
		text = candidateName
	}
	return &languageDetector{profile: profile, text: text}
}

func (d *languageDetector) Language() string {
	return d.profile.Name
}

func (d *languageDetector) Select(ctx context.Context, selector *CandidateSelector, application string) ([]domain.CandidateObject, error) {
	return selector.Select(ctx, application, d.profile)
}

func (d *languageDetector) Classify(ctx context.Context, classifier *TextClassifier, candidate domain.CandidateObject) (domain.ClassificationResult, error) {
	return classifier.Predict(ctx, d.profile.Name, d.text(candidate))
}

func (d *languageDetector) Verdict(candidate domain.CandidateObject, result domain.ClassificationResult, now time.Time) domain.FrameworkRecord {
	return domain.NewDetectionRecord(candidate.Name, candidate.InternalType, result, now)
}

// DefaultDetectors returns the detector registry of every supported language.
func DefaultDetectors() map[string]Detector {
	registry := make(map[string]Detector)
	for _, name := range domain.SupportedLanguages() {
		profile, _ := domain.LookupLanguage(name)
		text := candidateName
		if name == domain.LanguageJava || name == domain.LanguageNet {
			text = enclosingScope
		}
		registry[name] = NewLanguageDetector(profile, text)
	}
	return registry
}

func candidateName(c domain.CandidateObject) string {
	return c.Name
}

// enclosingScope returns the package (Java) or namespace (.NET) of a full
// name: "org.springframework.context.ApplicationContext" -> "org.springframework.context".
// Names without a scope fall back to the full name, then the short name.
func enclosingScope(c domain.CandidateObject) string {
	full := strings.TrimSpace(c.FullName)
	if i := strings.LastIndex(full, "."); i > 0 {
		return full[:i]
	}
	if full != "" {
		return full
	}
	return c.Name
}
