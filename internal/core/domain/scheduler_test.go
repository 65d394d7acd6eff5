package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerConfig_Tasks(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	config := NewSchedulerConfig(30 * time.Minute)

	assert.True(t, config.Enabled())
	tasks := config.Tasks(now)
	require.Len(t, tasks, 1)
	assert.Equal(t, TaskIDOracleSync, tasks[0].ID)
	assert.Equal(t, 30*time.Minute, tasks[0].Interval)
	assert.True(t, tasks[0].Enabled)
	assert.True(t, tasks[0].Due(now))
}

func TestSchedulerConfig_Disabled(t *testing.T) {
	config := NewSchedulerConfig(0)

	assert.False(t, config.Enabled())
	assert.Empty(t, config.Tasks(time.Now()))
}

func TestScheduledTask_Due(t *testing.T) {
	now := time.Now()

	assert.True(t, (&ScheduledTask{Enabled: true, NextRun: now.Add(-time.Second)}).Due(now))
	assert.False(t, (&ScheduledTask{Enabled: true, NextRun: now.Add(time.Minute)}).Due(now))
	assert.False(t, (&ScheduledTask{NextRun: now.Add(-time.Hour)}).Due(now))
}

func TestScheduledTask_Complete(t *testing.T) {
	start := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Second)
	task := &ScheduledTask{Interval: time.Hour, LastError: "earlier failure"}

	task.Complete(TaskResult{StartedAt: start, EndedAt: end, Success: true})

	assert.Equal(t, start, task.LastRun)
	assert.Equal(t, end.Add(time.Hour), task.NextRun)
	assert.Equal(t, end, task.LastSuccess)
	assert.Empty(t, task.LastError)

	task.Complete(TaskResult{StartedAt: start, EndedAt: end, Error: "oracle unreachable"})

	assert.Equal(t, "oracle unreachable", task.LastError)
	assert.Equal(t, end, task.LastSuccess)
}

func TestTaskResult_Duration(t *testing.T) {
	start := time.Now()
	result := TaskResult{StartedAt: start, EndedAt: start.Add(1500 * time.Millisecond)}

	assert.Equal(t, 1500*time.Millisecond, result.Duration())
}
