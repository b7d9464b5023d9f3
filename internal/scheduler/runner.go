// internal/scheduler/runner.go
package scheduler

import "context"

// Run executes tick 0 immediately, then one tick per interval until ctx
// is done (nil) or a task asks to stop (ErrStop).
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := s.clk.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := s.RunTick(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
