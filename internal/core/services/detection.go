package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
	"github.com/custodia-labs/artemis/internal/core/ports/driving"
	"github.com/custodia-labs/artemis/internal/logger"
)

// Ensure DetectionOrchestrator implements the interface.
var _ driving.DetectionService = (*DetectionOrchestrator)(nil)

// DetectionDeps are the collaborators of a DetectionOrchestrator.
// Oracle, Reports, Watcher and Metrics are optional.
type DetectionDeps struct {
	Selector   *CandidateSelector
	Classifier *TextClassifier
	Catalog    *FrameworkCatalog
	Oracle     *OracleSync
	Reports    *ReportGenerator
	Watcher    driven.CorpusWatcher
	Metrics    driven.MetricsRecorder

	// Detectors maps language names to variants. Nil uses DefaultDetectors.
	Detectors map[string]Detector

	// Retry applies to oracle lookups.
	Retry domain.RetryPolicy

	// NewRunID generates run identifiers. Nil uses the start time.
	NewRunID func() string
}

// DetectionOrchestrator runs the detection state machine:
// SELECTING -> CLASSIFYING -> PERSISTING -> DONE, or FAILED.
// Runs for the same application are serialised.
type DetectionOrchestrator struct {
	selector   *CandidateSelector
	classifier *TextClassifier
	catalog    *FrameworkCatalog
	oracle     *OracleSync
	reports    *ReportGenerator
	watcher    driven.CorpusWatcher
	metrics    driven.MetricsRecorder
	detectors  map[string]Detector
	retry      domain.RetryPolicy
	newRunID   func() string

	runs *keyedMutex
	now  func() time.Time
}

// NewDetectionOrchestrator creates an orchestrator.
func NewDetectionOrchestrator(deps DetectionDeps) *DetectionOrchestrator {
	o := &DetectionOrchestrator{
		selector:   deps.Selector,
		classifier: deps.Classifier,
		catalog:    deps.Catalog,
		oracle:     deps.Oracle,
		reports:    deps.Reports,
		watcher:    deps.Watcher,
		metrics:    deps.Metrics,
		detectors:  deps.Detectors,
		retry:      deps.Retry,
		newRunID:   deps.NewRunID,
		runs:       newKeyedMutex(),
		now:        time.Now,
	}
	if o.detectors == nil {
		o.detectors = DefaultDetectors()
	}
	if o.newRunID == nil {
		o.newRunID = func() string { return strconv.FormatInt(o.now().UnixNano(), 10) }
	}
	return o
}

// LaunchDetection runs the state machine once for an application.
func (o *DetectionOrchestrator) LaunchDetection(ctx context.Context, application, language string) (*domain.DetectionRun, error) {
	application = strings.TrimSpace(application)
	if application == "" {
		return nil, fmt.Errorf("%w: application is required", domain.ErrInvalidInput)
	}
	detector, err := o.detector(language)
	if err != nil {
		return nil, err
	}
	if o.selector == nil || o.classifier == nil || o.catalog == nil {
		return nil, fmt.Errorf("%w: detection services not configured", domain.ErrConfigurationMissing)
	}

	unlock, err := o.runs.LockContext(ctx, application)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrRunInProgress, application, err)
	}
	defer unlock()

	run := &domain.DetectionRun{
		ID:          o.newRunID(),
		Application: application,
		Language:    detector.Language(),
		StartedAt:   o.now(),
	}
	logger.Section("Detection " + run.ID)

	o.transition(run, domain.RunSelecting)
	candidates, err := detector.Select(ctx, o.selector, application)
	if err != nil {
		return o.fail(ctx, run, err)
	}
	run.Candidates = len(candidates)

	if err := o.classifier.EnsureReady(ctx, run.Language); err != nil {
		if !errors.Is(err, domain.ErrClassifierUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, err)
		}
		return o.fail(ctx, run, err)
	}

	o.transition(run, domain.RunClassifying)
	outcomes := make([]domain.CandidateOutcome, 0, len(candidates))
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return o.fail(ctx, run, err)
		}
		if outcome, ok := o.classify(ctx, run, detector, c); ok {
			outcomes = append(outcomes, outcome)
		}
	}

	o.transition(run, domain.RunPersisting)
	for i := range outcomes {
		o.persist(ctx, run, &outcomes[i])
	}
	run.Outcomes = outcomes

	o.finish(ctx, run, domain.RunDone)
	return run, nil
}

// classify decides one candidate: the oracle answer when there is one,
// otherwise the local classifier verdict.
func (o *DetectionOrchestrator) classify(
	ctx context.Context,
	run *domain.DetectionRun,
	detector Detector,
	c domain.CandidateObject,
) (domain.CandidateOutcome, bool) {
	if o.oracle != nil && o.oracle.Enabled() {
		record, err := retry(ctx, o.retry, func(ctx context.Context) (*domain.FrameworkRecord, error) {
			return o.oracle.FindRemote(ctx, c.Name, c.InternalType)
		})
		switch {
		case err != nil:
			if !errors.Is(err, domain.ErrRemoteSync) {
				err = fmt.Errorf("%w: %w", domain.ErrRemoteSync, err)
			}
			o.recordFailure(run, c, err)
			logger.Debug("oracle lookup of %s failed, classifying locally", c.Name)
		case record != nil:
			return domain.CandidateOutcome{Candidate: c, Record: *record, Source: domain.SourceOracle}, true
		}
	}

	result, err := detector.Classify(ctx, o.classifier, c)
	if err != nil {
		o.recordFailure(run, c, err)
		return domain.CandidateOutcome{}, false
	}
	return domain.CandidateOutcome{
		Candidate: c,
		Record:    detector.Verdict(c, result, o.now()),
		Source:    domain.SourceClassifier,
	}, true
}

func (o *DetectionOrchestrator) persist(ctx context.Context, run *domain.DetectionRun, outcome *domain.CandidateOutcome) {
	var (
		saved *domain.FrameworkRecord
		err   error
	)
	if outcome.Source == domain.SourceOracle {
		saved, err = o.catalog.Adopt(ctx, outcome.Record)
	} else {
		saved, err = o.catalog.Upsert(ctx, outcome.Record)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrCatalogWrite) {
			err = fmt.Errorf("%w: %w", domain.ErrCatalogWrite, err)
		}
		o.recordFailure(run, outcome.Candidate, err)
	} else {
		outcome.Record = *saved
		outcome.Persisted = o.catalog.Persistent()
	}
	if o.metrics != nil {
		o.metrics.ObserveVerdict(run.Language, outcome.Record.Type, outcome.Source)
	}
}

func (o *DetectionOrchestrator) fail(ctx context.Context, run *domain.DetectionRun, err error) (*domain.DetectionRun, error) {
	run.Err = err
	logger.Error("run %s failed: %v", run.ID, err)
	o.finish(ctx, run, domain.RunFailed)
	return run, err
}

func (o *DetectionOrchestrator) finish(ctx context.Context, run *domain.DetectionRun, state domain.RunState) {
	o.transition(run, state)
	run.FinishedAt = o.now()
	if o.metrics != nil {
		o.metrics.ObserveRun(run.Language, state, run.Duration())
	}
	if o.reports == nil {
		return
	}
	report, err := o.reports.Generate(ctx, run)
	run.Report = report
	if err != nil {
		logger.Warn("report for run %s: %v", run.ID, err)
	}
}

func (o *DetectionOrchestrator) transition(run *domain.DetectionRun, to domain.RunState) {
	logger.Transition(run.ID, string(run.State), string(to))
	run.State = to
}

func (o *DetectionOrchestrator) recordFailure(run *domain.DetectionRun, c domain.CandidateObject, err error) {
	f := domain.NewFailure(c, err)
	run.Failures = append(run.Failures, f)
	if o.metrics != nil {
		o.metrics.ObserveFailure(f.Kind)
	}
	logger.Warn("%v", f)
}

func (o *DetectionOrchestrator) detector(language string) (Detector, error) {
	d, ok := o.detectors[normaliseLanguage(language)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, language)
	}
	return d, nil
}

// TrainModel makes the classifier ready for a language and returns the
// elapsed time. With force, the model is retrained.
func (o *DetectionOrchestrator) TrainModel(ctx context.Context, language string, force bool) (time.Duration, error) {
	d, err := o.detector(language)
	if err != nil {
		return 0, err
	}
	if o.classifier == nil {
		return 0, fmt.Errorf("%w: classifier not configured", domain.ErrConfigurationMissing)
	}
	if force {
		return o.classifier.Train(ctx, d.Language())
	}
	start := time.Now()
	if err := o.classifier.EnsureReady(ctx, d.Language()); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// WatchCorpus retrains a language each time its corpus changes.
func (o *DetectionOrchestrator) WatchCorpus(ctx context.Context, onTrained func(string, time.Duration, error)) error {
	if o.watcher == nil {
		return fmt.Errorf("%w: corpus watcher not configured", domain.ErrConfigurationMissing)
	}
	return o.watcher.Watch(ctx, func(language string) {
		d, err := o.detector(language)
		if err != nil {
			logger.Debug("ignoring corpus change for %s", language)
			return
		}
		elapsed, err := o.classifier.Train(ctx, d.Language())
		if onTrained != nil {
			onTrained(d.Language(), elapsed, err)
		}
	})
}
