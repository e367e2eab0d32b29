package dto

import "time"

type ProfileResponse struct {
	SkinType        *string   `json:"skin_type"`
	Sensitivities   []string  `json:"sensitivities"`
	PreferredBrands []string  `json:"preferred_brands"`
	Concerns        []string  `json:"concerns"`
	BudgetRange     *string   `json:"budget_range"`
	Version         int       `json:"version"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}
