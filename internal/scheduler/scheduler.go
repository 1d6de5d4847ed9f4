// Package scheduler runs recurring focus blocks.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/runnerr0/focusguard/internal/config"
)

// FocusFunc runs one focus block and returns when it ends.
type FocusFunc func(ctx context.Context, entry config.ScheduleEntry) error

// Block is a scheduled focus block and its next start.
type Block struct {
	config.ScheduleEntry
	NextRun time.Time `json:"next_run"`
}

// Scheduler manages scheduled focus blocks. Only one block runs at a
// time; a block whose start finds another running is skipped.
type Scheduler struct {
	scheduler *gocron.Scheduler
	run       FocusFunc
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	busy sync.Mutex

	mu     sync.Mutex
	blocks []scheduled
}

type scheduled struct {
	entry config.ScheduleEntry
	job   *gocron.Job
}

// New creates a new scheduler instance evaluating cron expressions in loc.
func New(loc *time.Location, run FocusFunc, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		run:       run,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Add schedules entries. Invalid entries are rejected before any is
// added.
func (s *Scheduler) Add(entries []config.ScheduleEntry) error {
	for i, e := range entries {
		if strings.TrimSpace(e.Cron) == "" {
			return fmt.Errorf("schedule entry %d: cron expression is empty", i+1)
		}
		if e.Minutes <= 0 {
			return fmt.Errorf("schedule entry %d: minutes must be positive", i+1)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range entries {
		entry := e
		job, err := s.scheduler.Cron(entry.Cron).SingletonMode().Do(s.runEntry, entry)
		if err != nil {
			return fmt.Errorf("schedule entry %d (%q): %w", i+1, entry.Cron, err)
		}
		s.blocks = append(s.blocks, scheduled{entry: entry, job: job})
	}
	return nil
}

// Blocks lists the scheduled blocks.
func (s *Scheduler) Blocks() []Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Block, len(s.blocks))
	for i, b := range s.blocks {
		out[i] = Block{ScheduleEntry: b.entry, NextRun: b.job.NextRun()}
	}
	return out
}

// Start begins running all scheduled blocks without blocking.
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop cancels a running block and terminates the schedule.
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
}

func (s *Scheduler) runEntry(entry config.ScheduleEntry) {
	if !s.busy.TryLock() {
		s.logger.Warn("skipping scheduled focus block, another one is running",
			"cron", entry.Cron, "subject", entry.Subject)
		return
	}
	defer s.busy.Unlock()

	s.logger.Info("scheduled focus block starting",
		"cron", entry.Cron, "minutes", entry.Minutes, "subject", entry.Subject)
	if err := s.run(s.ctx, entry); err != nil {
		s.logger.Error("scheduled focus block failed", "cron", entry.Cron, "error", err)
	}
}
