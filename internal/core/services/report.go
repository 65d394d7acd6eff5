package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
	"github.com/custodia-labs/artemis/internal/logger"
)

// ReportGenerator turns finished runs into reports and distributes them.
type ReportGenerator struct {
	writer   driven.ReportWriter
	notifier driven.Notifier
}

// NewReportGenerator creates a generator. writer and notifier may be nil.
func NewReportGenerator(writer driven.ReportWriter, notifier driven.Notifier) *ReportGenerator {
	return &ReportGenerator{writer: writer, notifier: notifier}
}

// Generate builds the report of a run, writes it and sends notifications.
// The report is always returned; delivery errors are joined into the error.
func (g *ReportGenerator) Generate(ctx context.Context, run *domain.DetectionRun) (*domain.RunReport, error) {
	report := BuildReport(run)

	var errs []error
	if g.writer != nil {
		location, err := g.writer.Write(ctx, report)
		if err != nil {
			errs = append(errs, fmt.Errorf("write report: %w", err))
		} else {
			report.Location = location
			logger.Info("report for run %s written to %s", run.ID, location)
		}
	}
	if g.notifier != nil {
		if err := g.notifier.Notify(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("notify: %w", err))
		}
	}
	return report, errors.Join(errs...)
}

// BuildReport aggregates a run into a report.
func BuildReport(run *domain.DetectionRun) *domain.RunReport {
	report := &domain.RunReport{
		RunID:       run.ID,
		Application: run.Application,
		Language:    run.Language,
		State:       run.State,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
		Candidates:  run.Candidates,
		ByVerdict:   make(map[domain.FrameworkType]int),
		BySource:    make(map[domain.VerdictSource]int),
		ByFailure:   make(map[domain.FailureKind]int),
		Frameworks:  run.DetectedFrameworks(),
		Entries:     make([]domain.ReportEntry, 0, len(run.Outcomes)),
		Failures:    make([]domain.ReportFailure, 0, len(run.Failures)),
	}
	if run.Err != nil {
		report.Error = run.Err.Error()
	}

	for _, o := range run.Outcomes {
		report.ByVerdict[o.Record.Type]++
		report.BySource[o.Source]++
		report.Entries = append(report.Entries, domain.ReportEntry{
			Name:         o.Record.Name,
			FullName:     o.Candidate.FullName,
			InternalType: o.Record.InternalType,
			Verdict:      o.Record.Type,
			Score:        o.Record.DetectionScore,
			Source:       o.Source,
			Persisted:    o.Persisted,
		})
	}
	sort.SliceStable(report.Entries, func(i, j int) bool {
		if report.Entries[i].Name != report.Entries[j].Name {
			return report.Entries[i].Name < report.Entries[j].Name
		}
		return report.Entries[i].InternalType < report.Entries[j].InternalType
	})
	sort.Strings(report.Frameworks)

	for _, f := range run.Failures {
		report.ByFailure[f.Kind]++
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		report.Failures = append(report.Failures, domain.ReportFailure{
			Kind:         f.Kind,
			Candidate:    f.Candidate,
			InternalType: f.InternalType,
			Message:      msg,
		})
	}
	return report
}
