// internal/scheduler/scheduler.go
package scheduler

import (
	"errors"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/tamzrod/bikedash/internal/clock"
)

// ErrStop is returned by a task to end the loop after the current task.
var ErrStop = errors.New("scheduler: stop requested")

// Task is one entry of the tick table.
type Task struct {
	Name string

	// Period runs the task every Period ticks. 0 and 1 mean every tick.
	Period uint64

	// Phase offsets the task within its period.
	Phase uint64

	// After holds the task back until the tick counter reaches it.
	After uint64

	Run func(tick uint64) error
}

// Due reports whether the task runs on tick.
func (t Task) Due(tick uint64) bool {
	if tick < t.After {
		return false
	}
	if t.Period <= 1 {
		return true
	}
	return tick%t.Period == t.Phase%t.Period
}

// Config is the minimal runtime config the scheduler needs.
type Config struct {
	Interval time.Duration
}

// Scheduler runs a fixed task table off one clock. Tasks run in table
// order on the calling goroutine and never overlap.
type Scheduler struct {
	cfg   Config
	tasks []Task
	clk   clock.Clock
	log   hclog.Logger
	tick  uint64

	// lastErr holds the last logged error text per task, "" when healthy.
	lastErr []string
}

// New creates a scheduler with an immutable task table.
func New(cfg Config, tasks []Task, clk clock.Clock, log hclog.Logger) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("scheduler: interval must be > 0")
	}
	if len(tasks) == 0 {
		return nil, errors.New("scheduler: at least one task required")
	}
	for _, t := range tasks {
		if t.Name == "" || t.Run == nil {
			return nil, errors.New("scheduler: task needs a name and a run function")
		}
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Scheduler{
		cfg:     cfg,
		tasks:   tasks,
		clk:     clk,
		log:     log,
		lastErr: make([]string, len(tasks)),
	}, nil
}

// Tick returns the number of ticks run so far.
func (s *Scheduler) Tick() uint64 { return s.tick }

// RunTick runs every task due on the current tick and advances the
// counter. Task errors are logged, at Warn when a task starts failing or
// its error changes and at Debug while it repeats; only ErrStop is
// returned.
func (s *Scheduler) RunTick() error {
	tick := s.tick
	s.tick++

	for i, t := range s.tasks {
		if !t.Due(tick) {
			continue
		}
		err := t.Run(tick)
		if err == nil {
			if s.lastErr[i] != "" {
				s.log.Info("task recovered", "task", t.Name, "tick", tick)
				s.lastErr[i] = ""
			}
			continue
		}
		if errors.Is(err, ErrStop) {
			s.log.Info("stop requested", "task", t.Name, "tick", tick)
			return ErrStop
		}
		if msg := err.Error(); msg != s.lastErr[i] {
			s.log.Warn("task failed", "task", t.Name, "tick", tick, "error", err)
			s.lastErr[i] = msg
		} else {
			s.log.Debug("task failed", "task", t.Name, "tick", tick, "error", err)
		}
	}
	return nil
}
