package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/smart-starter/internal/models"
)

// PlayerValidator validates player records before they enter the
// projection pool
type PlayerValidator struct {
	validate *validator.Validate
}

// NewPlayerValidator creates a new player validator
func NewPlayerValidator() *PlayerValidator {
	return &PlayerValidator{validate: validator.New()}
}

// Validate checks a player record for required fields and sane ranges
func (v *PlayerValidator) Validate(p models.Player) error {
	if err := v.validate.Struct(p); err != nil {
		return err
	}

	if !p.Position.IsValid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownPosition, p.Position)
	}

	if p.RecentForm < 0 || p.RecentForm > 1 {
		return fmt.Errorf("recent_form out of range [0,1], got %f", p.RecentForm)
	}

	if p.SnapShare < 0 || p.SnapShare > 1 {
		return fmt.Errorf("snap_share out of range [0,1], got %f", p.SnapShare)
	}

	if p.DefensiveRank < 0 || p.DefensiveRank > 32 {
		return fmt.Errorf("def_rank out of range 1-32, got %d", p.DefensiveRank)
	}

	return nil
}
