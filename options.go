package cellroute

import (
	"log/slog"

	"github.com/r3ntru3w4n9/cell-move-router/internal/chip"
	"github.com/r3ntru3w4n9/cell-move-router/internal/runner"
)

// LoadOption configures Load.
type LoadOption = chip.LoadOption

// WithLogger sets the logger used for debug/trace load progress. If
// unset, no logging occurs.
func WithLogger(logger *slog.Logger) LoadOption {
	return chip.WithLogger(logger)
}

// WithDiagnosticConfig sets the diagnostic strictness used for non-fatal
// load observations.
func WithDiagnosticConfig(cfg DiagnosticConfig) LoadOption {
	return chip.WithDiagnosticConfig(cfg)
}

// RunConfig selects which optimisation steps Optimise calls each
// iteration and where it logs progress.
type RunConfig = runner.Config

// Step is one optimisation collaborator called once per iteration of
// Optimise; see Optimise for the mutation contract it must honour.
type Step = runner.Step
