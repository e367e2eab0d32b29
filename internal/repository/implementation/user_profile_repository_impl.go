package implementation

import (
	"context"
	"errors"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/mapper"
	"skintech-consultant-be/internal/model"
	"skintech-consultant-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserProfileMapper
}

func NewUserProfileRepository(db *gorm.DB) contract.UserProfileRepository {
	return &UserProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserProfileMapper(),
	}
}

func (r *UserProfileRepositoryImpl) find(db *gorm.DB, userId uuid.UUID) (*entity.UserProfile, error) {
	var m model.UserProfile
	if err := db.Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserProfileRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserProfile, error) {
	return r.find(r.db.WithContext(ctx), userId)
}

func (r *UserProfileRepositoryImpl) EnsureExists(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.UserProfile{UserId: userId}).Error
}

func (r *UserProfileRepositoryImpl) FindByUserIdForUpdate(ctx context.Context, userId uuid.UUID) (*entity.UserProfile, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userId)
}

func (r *UserProfileRepositoryImpl) Save(ctx context.Context, profile *entity.UserProfile) error {
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}
