package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
	"github.com/custodia-labs/artemis/internal/core/ports/driven"
	"github.com/custodia-labs/artemis/internal/core/ports/driving"
	"github.com/custodia-labs/artemis/internal/logger"
)

// taskFunc runs one task and returns the number of records it consumed.
type taskFunc func(ctx context.Context) (int, error)

// Scheduler runs the periodic oracle sync while serve is up. Task state is
// kept in the store so a restart resumes the schedule instead of pulling
// immediately.
type Scheduler struct {
	config  domain.SchedulerConfig
	store   driven.SchedulerStore
	runners map[string]taskFunc
	tick    time.Duration
	now     func() time.Time

	mu       sync.Mutex
	running  bool
	inFlight map[string]bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler. oracle may be nil.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	oracle driving.OracleService,
) *Scheduler {
	s := &Scheduler{
		config:   config,
		store:    store,
		tick:     time.Minute,
		now:      time.Now,
		inFlight: make(map[string]bool),
	}
	s.runners = map[string]taskFunc{
		domain.TaskIDOracleSync: func(ctx context.Context) (int, error) {
			return pullOracle(ctx, oracle)
		},
	}
	return s
}

// Start blocks running due tasks until Stop is called or ctx is done.
// It returns at once when no task is scheduled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running || !s.config.Enabled() {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Warn("scheduler: failed to initialise tasks: %v", err)
	}

	s.runDue(ctx)
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

// Stop ends the loop and waits for running tasks.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// initialiseTasks stores the configured tasks. A stored task keeps its
// next run unless its interval changed.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	for _, want := range s.config.Tasks(s.now()) {
		stored, err := s.store.GetTask(ctx, want.ID)
		if err != nil {
			return err
		}
		task := want
		if stored != nil {
			task = *stored
			task.Name = want.Name
			task.Enabled = want.Enabled
			if task.Interval != want.Interval {
				task.Interval = want.Interval
				task.NextRun = s.now().Add(want.Interval)
			}
		}
		if err := s.store.SaveTask(ctx, &task); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) runDue(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Warn("scheduler: failed to list tasks: %v", err)
		return
	}

	now := s.now()
	for i := range tasks {
		if tasks[i].Due(now) {
			s.runTask(ctx, tasks[i])
		}
	}
}

// runTask starts task in the background unless it is already running.
func (s *Scheduler) runTask(ctx context.Context, task domain.ScheduledTask) {
	run, ok := s.runners[task.ID]
	if !ok {
		logger.Warn("scheduler: unknown task ID: %s", task.ID)
		return
	}

	s.mu.Lock()
	if s.inFlight[task.ID] {
		s.mu.Unlock()
		return
	}
	s.inFlight[task.ID] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inFlight, task.ID)
			s.mu.Unlock()
		}()

		result := domain.TaskResult{TaskID: task.ID, StartedAt: s.now()}
		n, err := run(ctx)
		result.EndedAt = s.now()
		result.RecordsPulled = n
		if err != nil {
			result.Error = err.Error()
			logger.Warn("scheduler: task %s failed: %v", task.ID, err)
		} else {
			result.Success = true
			logger.Debug("scheduler: task %s consumed %d records in %s", task.ID, n, result.Duration())
		}

		task.Complete(result)
		if err := s.store.SaveTask(ctx, &task); err != nil {
			logger.Warn("scheduler: failed to save task %s: %v", task.ID, err)
		}
		if err := s.store.RecordResult(ctx, &result); err != nil {
			logger.Warn("scheduler: failed to record result for %s: %v", task.ID, err)
		}
		if err := s.store.PruneHistory(ctx, domain.TaskHistoryLimit); err != nil {
			logger.Warn("scheduler: failed to prune history: %v", err)
		}
	}()
}

func pullOracle(ctx context.Context, oracle driving.OracleService) (int, error) {
	if oracle == nil || !oracle.Enabled() {
		return 0, nil
	}
	snapshot, err := oracle.Sync(ctx)
	if err != nil {
		return 0, err
	}
	return len(snapshot.Pulled), nil
}
