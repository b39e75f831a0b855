package builtin

import (
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
)

// RuleConfig bundles the tunable parameters of the built-in rule set.
type RuleConfig struct {
	DefaultMaxConsecutiveDays int
	SkillExpiryWarningDays    int
	ContinuityWindowDays      int
	Fairness                  FairnessThresholds
}

// DefaultRuleConfig returns the production defaults.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		DefaultMaxConsecutiveDays: 6,
		SkillExpiryWarningDays:    30,
		ContinuityWindowDays:      60,
		Fairness:                  DefaultFairnessThresholds(),
	}
}

// RegisterDefaultConstraints registers the full built-in rule set: three hard
// constraints and three soft ones.
func RegisterDefaultConstraints(manager *constraint.Manager, cfg RuleConfig) {
	manager.Register(NewSkillMatchingConstraint(cfg.SkillExpiryWarningDays))
	manager.Register(NewAvailabilityConstraint())
	manager.Register(NewLaborLawConstraint(cfg.DefaultMaxConsecutiveDays))

	manager.Register(NewFairnessConstraint(cfg.Fairness))
	manager.Register(NewPreferenceConstraint())
	manager.Register(NewContinuityConstraint(cfg.ContinuityWindowDays))
}

// CatalogEntry describes one registered constraint for API consumers.
type CatalogEntry struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     constraint.Type `json:"type"`
	Priority int             `json:"priority"`
	Severity string          `json:"severity"`
	Enabled  bool            `json:"enabled"`
}

// Catalog lists the registered constraints in evaluation order.
func Catalog(manager *constraint.Manager) []CatalogEntry {
	constraints := manager.All()
	entries := make([]CatalogEntry, 0, len(constraints))
	for _, c := range constraints {
		entries = append(entries, CatalogEntry{
			ID:       c.ID(),
			Name:     c.Name(),
			Type:     c.Type(),
			Priority: c.Priority(),
			Severity: string(c.DefaultSeverity()),
			Enabled:  c.IsEnabled(),
		})
	}
	return entries
}
