package main

import (
	"fmt"

	"go.uber.org/zap"
)

// ThresholdPolicy decides how much overshoot a search accepts and whether
// an exhausted search is retried with a looser bar.
type ThresholdPolicy interface {
	Solve(e *Engine, target int) (Resolution, error)
}

// Resolution is the final outcome of a policy together with the attempts
// it took and the tolerance of the last attempt.
type Resolution struct {
	Outcome   SearchOutcome `json:"search"`
	Attempts  int           `json:"attempts"`
	Tolerance int           `json:"tolerance"`
}

// FixedThreshold runs a single search with a constant tolerance.
type FixedThreshold struct {
	Tolerance int
}

func (p FixedThreshold) Solve(e *Engine, target int) (Resolution, error) {
	out, err := e.Search(target, p.Tolerance)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Outcome: out, Attempts: 1, Tolerance: p.Tolerance}, nil
}

// EscalatingThreshold re-runs an exhausted search from scratch with the
// tolerance raised by Step, up to MaxAttempts searches in total.
// A search that runs out of budget is not retried.
type EscalatingThreshold struct {
	InitialTolerance int
	Step             int
	MaxAttempts      int

	// OnEscalate, if set, is called with the new tolerance before each retry.
	OnEscalate func(tolerance int)
}

func (p EscalatingThreshold) validate() error {
	if p.InitialTolerance < 0 {
		return &ConfigError{Field: "threshold_damage", Reason: fmt.Sprintf("must not be negative, got %d", p.InitialTolerance)}
	}
	if p.Step <= 0 {
		return &ConfigError{Field: "tolerance_step", Reason: fmt.Sprintf("must be positive, got %d", p.Step)}
	}
	if p.MaxAttempts <= 0 {
		return &ConfigError{Field: "max_attempts", Reason: fmt.Sprintf("must be positive, got %d", p.MaxAttempts)}
	}
	return nil
}

func (p EscalatingThreshold) Solve(e *Engine, target int) (Resolution, error) {
	if err := p.validate(); err != nil {
		return Resolution{}, err
	}

	tol := p.InitialTolerance
	var res Resolution
	for attempt := 1; ; attempt++ {
		out, err := e.Search(target, tol)
		if err != nil {
			return Resolution{}, err
		}
		res = Resolution{Outcome: out, Attempts: attempt, Tolerance: tol}
		if out.Kind != Exhausted || attempt >= p.MaxAttempts {
			return res, nil
		}
		tol += p.Step
		e.log.Debug("no solution within tolerance, escalating",
			zap.Int("target", target),
			zap.Int("attempt", attempt),
			zap.Int("tolerance", tol))
		if p.OnEscalate != nil {
			p.OnEscalate(tol)
		}
	}
}
