package domain

import "sort"

// Category is the classifier's output class.
type Category string

// Classifier categories.
const (
	CategoryFramework    Category = "FRAMEWORK"
	CategoryNotFramework Category = "NOT_FRAMEWORK"
)

// Categories lists every category the classifier can emit.
func Categories() []Category {
	return []Category{CategoryFramework, CategoryNotFramework}
}

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	return c == CategoryFramework || c == CategoryNotFramework
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// ConfidenceTier is the classifier's self-reported certainty bucket.
type ConfidenceTier string

// Confidence tiers.
const (
	Confident    ConfidenceTier = "CONFIDENT"
	NotConfident ConfidenceTier = "NOT_CONFIDENT"
)

// TierFor derives the tier of a top probability against a threshold.
func TierFor(top, threshold float64) ConfidenceTier {
	if top >= threshold {
		return Confident
	}
	return NotConfident
}

// CategoryProbability is one entry of a probability vector.
type CategoryProbability struct {
	Category    Category
	Probability float64
}

// ClassificationResult is the classifier output for one name.
type ClassificationResult struct {
	// Category is the top category.
	Category Category

	// Confidence is CONFIDENT when the top probability meets the threshold.
	Confidence ConfidenceTier

	// Probabilities are ordered by descending probability.
	Probabilities []CategoryProbability
}

// TopProbability returns the highest ranked probability, or 0.0 if none.
func (r ClassificationResult) TopProbability() float64 {
	if len(r.Probabilities) == 0 {
		return 0.0
	}
	return r.Probabilities[0].Probability
}

// NewClassificationResult sorts probs descending and derives category and tier.
func NewClassificationResult(probs []CategoryProbability, threshold float64) ClassificationResult {
	sorted := make([]CategoryProbability, len(probs))
	copy(sorted, probs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Probability > sorted[j].Probability
	})

	result := ClassificationResult{
		Category:      CategoryNotFramework,
		Confidence:    NotConfident,
		Probabilities: sorted,
	}
	if len(sorted) > 0 {
		result.Category = sorted[0].Category
		result.Confidence = TierFor(sorted[0].Probability, threshold)
	}
	return result
}

// LabeledSample is one training example of the classifier corpus.
type LabeledSample struct {
	Text     string
	Category Category
}

// Corpus is the labelled training set of one language.
type Corpus struct {
	Language string
	Samples  []LabeledSample

	// Fingerprint changes whenever the samples change.
	Fingerprint string
}
