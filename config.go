package main

import "fmt"

const (
	PolicyFixed      = "fixed"
	PolicyEscalating = "escalating"
)

// Config is the contents of the config file. Adjust MaxIterations to trade
// speed for solution quality.
type Config struct {
	// ThresholdDamage is the largest overshoot accepted without searching
	// further; the starting tolerance under the escalating policy.
	ThresholdDamage int `json:"threshold_damage" yaml:"threshold_damage"`
	// MaxIterations caps the number of casts tried per search.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
	// Policy is "fixed" or "escalating".
	Policy string `json:"policy" yaml:"policy"`
	// ToleranceStep is added to the tolerance after an exhausted search.
	ToleranceStep int `json:"tolerance_step" yaml:"tolerance_step"`
	// MaxAttempts caps the searches run for one target under escalation.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	Spells []SpellRecord `json:"spells" yaml:"spells"`
}

// DefaultConfig returns the config written on first start.
func DefaultConfig() Config {
	return Config{
		ThresholdDamage: 3,
		MaxIterations:   10000,
		Policy:          PolicyFixed,
		ToleranceStep:   5,
		MaxAttempts:     10,
		Spells: []SpellRecord{
			{Name: "rocket", Damage: 371, Enabled: true},
			{Name: "poison", Damage: 184, Enabled: true},
			{Name: "void 1", Damage: 144, Enabled: true},
			{Name: "vines", Damage: 76, Enabled: true},
			{Name: "void 2", Damage: 75, Enabled: true},
			{Name: "log", Damage: 41, Enabled: true},
			{Name: "tornado", Damage: 25, Enabled: true},
		},
	}
}

// Validate checks the numeric settings. The spell list is checked by
// Catalog.
func (c Config) Validate() error {
	if c.MaxIterations <= 0 {
		return &ConfigError{Field: "max_iterations", Reason: fmt.Sprintf("must be positive, got %d", c.MaxIterations)}
	}
	if c.ThresholdDamage < 0 {
		return &ConfigError{Field: "threshold_damage", Reason: fmt.Sprintf("must not be negative, got %d", c.ThresholdDamage)}
	}
	switch c.Policy {
	case PolicyFixed:
	case PolicyEscalating:
		if c.ToleranceStep <= 0 {
			return &ConfigError{Field: "tolerance_step", Reason: fmt.Sprintf("must be positive, got %d", c.ToleranceStep)}
		}
		if c.MaxAttempts <= 0 {
			return &ConfigError{Field: "max_attempts", Reason: fmt.Sprintf("must be positive, got %d", c.MaxAttempts)}
		}
	default:
		return &ConfigError{Field: "policy", Reason: fmt.Sprintf("must be %q or %q, got %q", PolicyFixed, PolicyEscalating, c.Policy)}
	}
	return nil
}

// Catalog builds the search catalog from the enabled spells.
func (c Config) Catalog() (Catalog, error) {
	return NewCatalog(c.Spells)
}

// ThresholdPolicy returns the policy selected by Policy.
func (c Config) ThresholdPolicy() ThresholdPolicy {
	if c.Policy == PolicyEscalating {
		return EscalatingThreshold{
			InitialTolerance: c.ThresholdDamage,
			Step:             c.ToleranceStep,
			MaxAttempts:      c.MaxAttempts,
		}
	}
	return FixedThreshold{Tolerance: c.ThresholdDamage}
}
