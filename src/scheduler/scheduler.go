// Package scheduler runs recurring client-side tasks (the TUI
// auto-refresh) on cron expressions.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/anteater/eventmap/src/logging"
)

// Task represents a scheduled task
type Task struct {
	Name     string
	Schedule string // Cron expression: "0 2 * * *", "@hourly", "@every 5m"
	Fn       func() error
	entryID  cron.EntryID
	lastRun  *time.Time
	mu       sync.Mutex
}

// Scheduler manages scheduled tasks using robfig/cron
type Scheduler struct {
	cron  *cron.Cron
	tasks map[string]*Task
	mu    sync.RWMutex
}

// New creates a scheduler with standard cron format plus descriptors
// ("@hourly", "@every 5m").
func New() *Scheduler {
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)))

	return &Scheduler{
		cron:  c,
		tasks: make(map[string]*Task),
	}
}

// AddTask adds a new task to the scheduler with a cron schedule
func (s *Scheduler) AddTask(name string, schedule string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &Task{
		Name:     name,
		Schedule: schedule,
		Fn:       fn,
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.executeTask(task)
	})
	if err != nil {
		return fmt.Errorf("failed to add task '%s' with schedule '%s': %w", name, schedule, err)
	}

	task.entryID = entryID
	s.tasks[name] = task

	return nil
}

// AddTaskInterval adds a task with a time.Duration interval
func (s *Scheduler) AddTaskInterval(name string, interval time.Duration, fn func() error) error {
	return s.AddTask(name, fmt.Sprintf("@every %s", interval.String()), fn)
}

// RemoveTask removes a task from the scheduler
func (s *Scheduler) RemoveTask(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task, ok := s.tasks[name]; ok {
		s.cron.Remove(task.entryID)
		delete(s.tasks, name)
	}
}

// executeTask runs one task and records its outcome
func (s *Scheduler) executeTask(task *Task) {
	task.mu.Lock()
	now := time.Now()
	task.lastRun = &now
	task.mu.Unlock()

	if err := task.Fn(); err != nil {
		logging.Warn("scheduled task failed", "task", task.Name, "err", err)
	}
}

// LastRun returns when the named task last executed, if ever
func (s *Scheduler) LastRun(name string) (time.Time, bool) {
	s.mu.RLock()
	task, ok := s.tasks[name]
	s.mu.RUnlock()
	if !ok {
		return time.Time{}, false
	}

	task.mu.Lock()
	defer task.mu.Unlock()
	if task.lastRun == nil {
		return time.Time{}, false
	}
	return *task.lastRun, true
}

// Start starts the cron scheduler
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron.Start()
	logging.Debug("scheduler started", "tasks", len(s.tasks))
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
}
