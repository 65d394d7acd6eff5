// Package file writes run reports as JSON files.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.ReportWriter = (*Writer)(nil)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Writer writes one <application>-<run id>.json file per run.
type Writer struct {
	dir string
}

// NewWriter creates a writer into dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write serialises the report and returns the file path.
func (w *Writer) Write(ctx context.Context, report *domain.RunReport) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if report == nil {
		return "", domain.ErrInvalidInput
	}

	if err := os.MkdirAll(w.dir, 0700); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	data, err := json.MarshalIndent(toDocument(report), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	name := unsafeChars.ReplaceAllString(report.Application, "_") + "-" + report.RunID + ".json"
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// Document is the JSON layout of a report file.
type Document struct {
	RunID       string            `json:"runId"`
	Application string            `json:"application"`
	Language    string            `json:"language"`
	State       string            `json:"state"`
	StartedAt   time.Time         `json:"startedAt"`
	FinishedAt  time.Time         `json:"finishedAt"`
	Candidates  int               `json:"candidates"`
	ByVerdict   map[string]int    `json:"byVerdict"`
	BySource    map[string]int    `json:"bySource"`
	ByFailure   map[string]int    `json:"byFailure,omitempty"`
	Frameworks  []string          `json:"frameworks"`
	Entries     []EntryDocument   `json:"entries"`
	Failures    []FailureDocument `json:"failures,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// EntryDocument is one candidate of a report file.
type EntryDocument struct {
	Name         string  `json:"name"`
	FullName     string  `json:"fullName,omitempty"`
	InternalType string  `json:"internalType"`
	Verdict      string  `json:"verdict"`
	Score        float64 `json:"score"`
	Source       string  `json:"source"`
	Persisted    bool    `json:"persisted"`
}

// FailureDocument is one recorded failure of a report file.
type FailureDocument struct {
	Kind         string `json:"kind"`
	Candidate    string `json:"candidate"`
	InternalType string `json:"internalType,omitempty"`
	Message      string `json:"message"`
}

func toDocument(r *domain.RunReport) Document {
	doc := Document{
		RunID:       r.RunID,
		Application: r.Application,
		Language:    r.Language,
		State:       string(r.State),
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		Candidates:  r.Candidates,
		ByVerdict:   make(map[string]int, len(r.ByVerdict)),
		BySource:    make(map[string]int, len(r.BySource)),
		Frameworks:  append([]string{}, r.Frameworks...),
		Entries:     make([]EntryDocument, 0, len(r.Entries)),
		Error:       r.Error,
	}
	for k, v := range r.ByVerdict {
		doc.ByVerdict[string(k)] = v
	}
	for k, v := range r.BySource {
		doc.BySource[string(k)] = v
	}
	if len(r.ByFailure) > 0 {
		doc.ByFailure = make(map[string]int, len(r.ByFailure))
		for k, v := range r.ByFailure {
			doc.ByFailure[string(k)] = v
		}
	}
	for _, e := range r.Entries {
		doc.Entries = append(doc.Entries, EntryDocument{
			Name:         e.Name,
			FullName:     e.FullName,
			InternalType: e.InternalType,
			Verdict:      string(e.Verdict),
			Score:        e.Score,
			Source:       string(e.Source),
			Persisted:    e.Persisted,
		})
	}
	for _, f := range r.Failures {
		doc.Failures = append(doc.Failures, FailureDocument{
			Kind:         string(f.Kind),
			Candidate:    f.Candidate,
			InternalType: f.InternalType,
			Message:      f.Message,
		})
	}
	return doc
}
