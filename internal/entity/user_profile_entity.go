package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	SkinTypeOily        = "oily"
	SkinTypeDry         = "dry"
	SkinTypeCombination = "combination"
	SkinTypeSensitive   = "sensitive"
	SkinTypeNormal      = "normal"

	BudgetLow    = "budget"
	BudgetMid    = "mid-range"
	BudgetLuxury = "luxury"
)

// UserProfile holds learned preferences. Set fields are kept sorted and deduplicated.
type UserProfile struct {
	UserId          uuid.UUID
	SkinType        *string
	Sensitivities   []string
	PreferredBrands []string
	Concerns        []string
	BudgetRange     *string
	Version         int
	UpdatedAt       time.Time
}

func (p *UserProfile) IsEmpty() bool {
	return p == nil || (p.SkinType == nil && p.BudgetRange == nil &&
		len(p.Sensitivities) == 0 && len(p.PreferredBrands) == 0 && len(p.Concerns) == 0)
}
