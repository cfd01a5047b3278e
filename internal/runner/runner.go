// Package runner drives the single-threaded optimisation loop: given a
// wall-clock budget and a set of optimisation steps selected at the CLI,
// it calls each step repeatedly until the budget is exhausted, then
// returns control to the caller so the current state can be emitted.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/r3ntru3w4n9/cell-move-router/internal/chip"
	itypes "github.com/r3ntru3w4n9/cell-move-router/internal/types"
)

// ErrTimeExpired is returned when the configured wall-clock budget is
// exhausted before the driver is asked to stop for any other reason.
var ErrTimeExpired = errors.New("time budget expired")

// Step is one optimisation collaborator. It is given the chip to mutate
// in place and must return quickly enough that the overall deadline is
// respected; the controller performs no cooperative cancellation inside
// a single call.
type Step func(ctx context.Context, c *chip.Chip) error

// Budget computes the total duration from mutually-exclusive CLI time
// flags, precedence sec > min > hr, defaulting to one hour when none are
// set. At most one of sec, min, hr should be positive; the CLI rejects
// more than one before calling Budget.
func Budget(sec, min, hr int) time.Duration {
	switch {
	case sec > 0:
		return time.Duration(sec) * time.Second
	case min > 0:
		return time.Duration(min) * time.Minute
	case hr > 0:
		return time.Duration(hr) * time.Hour
	default:
		return time.Hour
	}
}

// Config selects which optimisation steps the Run loop calls each
// iteration, in order: cell-move before net-reroute when both are
// enabled, mirroring the CLI's --cell/--net ordering.
type Config struct {
	CellMove Step
	Reroute  Step
	Logger   *slog.Logger
}

// Run loops optimisation steps against c until ctx's deadline fires; with
// neither step set it returns nil at once. On
// expiry it returns ErrTimeExpired alongside whatever state c holds at
// that point; the caller (the CLI shell) treats this as a normal
// termination and proceeds to emit c, not as a fatal error.
func Run(ctx context.Context, c *chip.Chip, duration time.Duration, cfg Config) error {
	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	if cfg.CellMove == nil && cfg.Reroute == nil {
		return nil
	}

	log := &itypes.Logger{L: cfg.Logger}
	start := time.Now()
	iterations := 0

	// A step that never moves AlreadyMoved past MaxMove and never errors
	// would otherwise spin the select/default check as fast as the CPU
	// allows; pacing against a ticker keeps an idle step set from burning
	// a core for the whole budget.
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.Log(itypes.LevelTrace, "time budget expired",
					slog.Duration("elapsed", time.Since(start)), slog.Int("iterations", iterations))
				return ErrTimeExpired
			}
			return ctx.Err()
		case <-ticker.C:
		}

		if cfg.CellMove != nil && c.AlreadyMoved < c.MaxMove {
			if err := cfg.CellMove(ctx, c); err != nil {
				return fmt.Errorf("runner: cell-move step: %w", err)
			}
		}
		if cfg.Reroute != nil {
			if err := cfg.Reroute(ctx, c); err != nil {
				return fmt.Errorf("runner: net-reroute step: %w", err)
			}
		}

		iterations++
	}
}
