// internal/dashboard/shutdown.go
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// ErrForcedExit is returned when too many shutdown steps failed in a
// row. The caller should exit non-zero.
var ErrForcedExit = errors.New("dashboard: shutdown aborted after repeated failures")

// Step is one isolated part of the shutdown sequence.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunShutdown runs steps in order. A failing or panicking step is
// logged and skipped. After maxFailures consecutive failures the
// remaining steps are abandoned and ErrForcedExit is returned.
// maxFailures <= 0 never gives up.
func RunShutdown(ctx context.Context, steps []Step, maxFailures int, log hclog.Logger) error {
	if log == nil {
		log = hclog.NewNullLogger()
	}

	var (
		failed      []error
		consecutive int
	)
	for _, s := range steps {
		err := runStep(ctx, s)
		if err == nil {
			log.Debug("shutdown step done", "step", s.Name)
			consecutive = 0
			continue
		}

		log.Error("shutdown step failed", "step", s.Name, "error", err)
		failed = append(failed, fmt.Errorf("%s: %w", s.Name, err))
		consecutive++
		if maxFailures > 0 && consecutive >= maxFailures {
			return errors.Join(append([]error{ErrForcedExit}, failed...)...)
		}
	}
	return nil
}

func runStep(ctx context.Context, s Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Run(ctx)
}
