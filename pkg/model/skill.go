package model

import (
	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
)

// Skill is a certifiable capability.
type Skill struct {
	BaseModel
	Name       string `json:"name" db:"name"`
	Category   string `json:"category,omitempty" db:"category"`
	LevelScale int    `json:"level_scale" db:"level_scale"` // levels run 1..LevelScale
}

// Validate checks the skill's structural invariants.
func (s *Skill) Validate() error {
	if s.Name == "" {
		return errors.InvalidInput("name", "must not be empty")
	}
	if s.LevelScale < 1 {
		return errors.InvalidInput("level_scale", "must be at least 1")
	}
	return nil
}

// EmployeeSkill is a certification record binding an employee to a skill.
type EmployeeSkill struct {
	BaseModel
	EmployeeID uuid.UUID `json:"employee_id" db:"employee_id"`
	SkillID    uuid.UUID `json:"skill_id" db:"skill_id"`
	Level      int       `json:"level" db:"level"`
	ValidUntil string    `json:"valid_until,omitempty" db:"valid_until"` // YYYY-MM-DD, empty = no expiry
}

// Validate checks the certification against its skill's level scale.
func (es *EmployeeSkill) Validate(skill *Skill) error {
	if es.Level < 1 {
		return errors.InvalidInput("level", "must be at least 1")
	}
	if skill != nil && es.Level > skill.LevelScale {
		return errors.InvalidInput("level", "exceeds the skill's level scale")
	}
	if es.ValidUntil != "" {
		if _, err := ParseDate(es.ValidUntil); err != nil {
			return errors.InvalidInput("valid_until", "must be YYYY-MM-DD")
		}
	}
	return nil
}

// IsExpired reports whether the certification lapsed before asOf.
func (es *EmployeeSkill) IsExpired(asOf string) bool {
	return es.ValidUntil != "" && es.ValidUntil < asOf
}

// ExpiresWithin reports whether the certification lapses within days of asOf
// (inclusive, future).
func (es *EmployeeSkill) ExpiresWithin(asOf string, days int) bool {
	if es.ValidUntil == "" || es.IsExpired(asOf) {
		return false
	}
	return es.ValidUntil <= AddDays(asOf, days)
}
