package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserProfile struct {
	UserId          uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	SkinType        *string                     `gorm:"type:varchar(20)"`
	Sensitivities   datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	PreferredBrands datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Concerns        datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	BudgetRange     *string                     `gorm:"type:varchar(20)"`
	Version         int                         `gorm:"not null;default:0"`
	CreatedAt       time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt       time.Time                   `gorm:"autoUpdateTime"`

	User *User `gorm:"foreignKey:UserId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
