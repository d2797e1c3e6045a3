package main

import (
	"fmt"

	"go.uber.org/zap"
)

// Solver ties a validated config to an engine and its threshold policy.
type Solver struct {
	engine  *Engine
	policy  ThresholdPolicy
	metrics *Metrics
	log     *zap.Logger
}

// NewSolver validates cfg and builds its catalog. metrics may be nil.
func NewSolver(cfg Config, log *zap.Logger, metrics *Metrics) (*Solver, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(cat, cfg.MaxIterations, log)
	if err != nil {
		return nil, err
	}

	policy := cfg.ThresholdPolicy()
	if esc, ok := policy.(EscalatingThreshold); ok {
		esc.OnEscalate = func(int) { metrics.escalated() }
		policy = esc
	}
	return &Solver{engine: engine, policy: policy, metrics: metrics, log: log}, nil
}

// Catalog returns the sorted catalog searched by s.
func (s *Solver) Catalog() Catalog { return s.engine.Catalog() }

// Solve runs the policy for target and builds the report of its best
// solution.
func (s *Solver) Solve(target int) (Resolution, ResultReport, error) {
	res, err := s.policy.Solve(s.engine, target)
	if err != nil {
		return Resolution{}, ResultReport{}, fmt.Errorf("solve %d: %w", target, err)
	}
	s.metrics.observe(res.Outcome)
	fields := []zap.Field{
		zap.Int("target", target),
		zap.Stringer("outcome", res.Outcome.Kind),
		zap.Int("iterations", res.Outcome.Iterations),
		zap.Int("attempts", res.Attempts),
	}
	cat := s.engine.Catalog()
	if best := res.Outcome.Best; best != nil {
		fields = append(fields,
			zap.Strings("spells", cat.Names(best.Path)),
			zap.Int("damage", cat.Damage(best.Path)))
	}
	s.log.Info("solved", fields...)
	return res, ReportFor(cat, res.Outcome), nil
}

// SolveResponse is the JSON form of one solved target, shared by --json,
// the HTTP server and the Lambda handler.
type SolveResponse struct {
	Target int `json:"target"`
	Resolution
	Report ResultReport `json:"report"`
}
