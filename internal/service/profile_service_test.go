package service

import (
	"context"
	"testing"

	"skintech-consultant-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileStore_UpdateSavesOnlyOnChange(t *testing.T) {
	db := newMemoryDB()
	store := NewProfileStore(db)
	ctx := context.Background()
	userID := uuid.New()
	oily := entity.SkinTypeOily

	p, changed, err := store.Update(ctx, userID, func(p *entity.UserProfile) bool { return false })
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 0, p.Version)
	assert.Equal(t, 0, db.saves)

	p, changed, err = store.Update(ctx, userID, func(p *entity.UserProfile) bool {
		p.SkinType = &oily
		p.Version++
		return true
	})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, p.Version)
	assert.Equal(t, 1, db.saves)

	loaded, err := store.Load(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, loaded.SkinType)
	assert.Equal(t, oily, *loaded.SkinType)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestProfileService_GetMissingProfile(t *testing.T) {
	svc := NewProfileService(NewProfileStore(newMemoryDB()))

	res, err := svc.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Version)
	assert.Nil(t, res.SkinType)
	assert.NotNil(t, res.Sensitivities)
	assert.Empty(t, res.Concerns)
}
