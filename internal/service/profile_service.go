package service

import (
	"context"
	"fmt"
	"time"

	"skintech-consultant-be/internal/dto"
	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/repository/unitofwork"
	"skintech-consultant-be/pkg/rag/chat"
	"skintech-consultant-be/pkg/rag/profile"

	"github.com/google/uuid"
)

// ProfileStore serializes read-modify-write cycles per user with a row lock.
type ProfileStore struct {
	uowFactory unitofwork.RepositoryFactory
}

var (
	_ profile.Store      = (*ProfileStore)(nil)
	_ chat.ProfileReader = (*ProfileStore)(nil)
)

func NewProfileStore(uowFactory unitofwork.RepositoryFactory) *ProfileStore {
	return &ProfileStore{uowFactory: uowFactory}
}

func (s *ProfileStore) Load(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	return s.uowFactory.NewUnitOfWork(ctx).UserProfileRepository().FindByUserId(ctx, userID)
}

// Update runs fn on the locked current profile and saves only when fn reports a change.
func (s *ProfileStore) Update(ctx context.Context, userID uuid.UUID, fn func(p *entity.UserProfile) bool) (*entity.UserProfile, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}
	defer uow.Rollback()

	repo := uow.UserProfileRepository()
	if err := repo.EnsureExists(ctx, userID); err != nil {
		return nil, false, fmt.Errorf("ensure profile: %w", err)
	}
	current, err := repo.FindByUserIdForUpdate(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("lock profile: %w", err)
	}
	if current == nil {
		current = &entity.UserProfile{UserId: userID}
	}

	if !fn(current) {
		return current, false, uow.Commit()
	}

	current.UpdatedAt = time.Now()
	if err := repo.Save(ctx, current); err != nil {
		return nil, false, fmt.Errorf("save profile: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, false, err
	}
	return current, true, nil
}

type IProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
}

type profileService struct {
	store *ProfileStore
}

func NewProfileService(store *ProfileStore) IProfileService {
	return &profileService{store: store}
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	p, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &entity.UserProfile{UserId: userID}
	}
	return &dto.ProfileResponse{
		SkinType:        p.SkinType,
		Sensitivities:   orEmpty(p.Sensitivities),
		PreferredBrands: orEmpty(p.PreferredBrands),
		Concerns:        orEmpty(p.Concerns),
		BudgetRange:     p.BudgetRange,
		Version:         p.Version,
		UpdatedAt:       p.UpdatedAt,
	}, nil
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
