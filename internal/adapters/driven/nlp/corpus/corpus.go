// Package corpus provides the labelled training corpora of the classifier.
//
// Corpora are CSV files named <language>.csv with a name,category header.
// The corpora bundled with the binary can be overridden per language by
// files in a corpus directory.
package corpus

import (
	"bytes"
	"context"
	"crypto/sha256"
	"embed"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
	"github.com/custodia-labs/artemis/internal/logger"
)

//go:embed data/*.csv
var bundled embed.FS

// Ensure Source implements the interface.
var _ driven.CorpusSource = (*Source)(nil)

// Source reads corpora from the override directory, falling back to the bundled ones.
type Source struct {
	dir string
}

// NewSource creates a corpus source. An empty dir uses only bundled corpora.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Corpus returns the training corpus of a language.
func (s *Source) Corpus(ctx context.Context, language string) (domain.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return domain.Corpus{}, err
	}

	data, origin, err := s.read(language)
	if err != nil {
		return domain.Corpus{}, err
	}

	samples, err := Parse(bytes.NewReader(data))
	if err != nil {
		return domain.Corpus{}, fmt.Errorf("parsing %s: %w", origin, err)
	}

	logger.Debug("corpus %s: %d samples from %s", language, len(samples), origin)
	return domain.Corpus{
		Language:    language,
		Samples:     samples,
		Fingerprint: Fingerprint(data),
	}, nil
}

func (s *Source) read(language string) ([]byte, string, error) {
	name := language + ".csv"
	if s.dir != "" {
		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("reading corpus: %w", err)
		}
	}

	data, err := bundled.ReadFile("data/" + name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: no corpus for language %q", domain.ErrNotFound, language)
	}
	return data, "bundled " + name, nil
}

// Languages returns the languages with a bundled corpus, sorted.
func Languages() []string {
	entries, err := fs.ReadDir(bundled, "data")
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		if lang, ok := LanguageOf(e.Name()); ok {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}

// LanguageOf returns the language a corpus file name belongs to.
func LanguageOf(fileName string) (string, bool) {
	base := filepath.Base(fileName)
	if filepath.Ext(base) != ".csv" {
		return "", false
	}
	lang := strings.TrimSuffix(base, ".csv")
	return lang, lang != ""
}

// Fingerprint returns the hex sha256 of a corpus file.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Parse reads name,category rows. A leading header row and lines
// starting with # are skipped.
func Parse(r io.Reader) ([]domain.LabeledSample, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var samples []domain.LabeledSample
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: line %d: want name,category", domain.ErrInvalidInput, line)
		}

		text := strings.TrimSpace(record[0])
		category := domain.Category(strings.ToUpper(strings.TrimSpace(record[1])))
		if text == "" || !category.IsValid() {
			return nil, fmt.Errorf("%w: line %d: invalid sample %q", domain.ErrInvalidInput, line, strings.Join(record, ","))
		}
		samples = append(samples, domain.LabeledSample{Text: text, Category: category})
	}
	return samples, nil
}
