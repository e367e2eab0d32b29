package mapper

import (
	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/model"
)

type UserProfileMapper struct{}

func NewUserProfileMapper() *UserProfileMapper {
	return &UserProfileMapper{}
}

func (m *UserProfileMapper) ToEntity(p *model.UserProfile) *entity.UserProfile {
	if p == nil {
		return nil
	}
	return &entity.UserProfile{
		UserId:          p.UserId,
		SkinType:        p.SkinType,
		Sensitivities:   []string(p.Sensitivities),
		PreferredBrands: []string(p.PreferredBrands),
		Concerns:        []string(p.Concerns),
		BudgetRange:     p.BudgetRange,
		Version:         p.Version,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (m *UserProfileMapper) ToModel(p *entity.UserProfile) *model.UserProfile {
	if p == nil {
		return nil
	}
	return &model.UserProfile{
		UserId:          p.UserId,
		SkinType:        p.SkinType,
		Sensitivities:   nonNil(p.Sensitivities),
		PreferredBrands: nonNil(p.PreferredBrands),
		Concerns:        nonNil(p.Concerns),
		BudgetRange:     p.BudgetRange,
		Version:         p.Version,
		UpdatedAt:       p.UpdatedAt,
	}
}

// nonNil keeps empty sets stored as [] rather than null.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
