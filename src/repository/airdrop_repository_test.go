package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"spotnet/src/model"
)

func TestAirDropRepositoryClaimFlow(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewAirDropRepositoryWithDB(db)
	user := createUser(t, db, "0xairdrop")

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	first := &model.AirDrop{
		UserID:    user.ID,
		CreatedAt: base,
		Amount:    decimal.NewNullDecimal(decimal.RequireFromString("12.5")),
	}
	second := &model.AirDrop{UserID: user.ID, CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	unclaimed, err := repo.ListUnclaimedByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, unclaimed, 2)
	assert.Equal(t, first.ID, unclaimed[0].ID)
	assert.True(t, unclaimed[0].Amount.Valid)
	assert.True(t, unclaimed[0].Amount.Decimal.Equal(decimal.RequireFromString("12.5")))
	assert.False(t, unclaimed[1].Amount.Valid)
	assert.Nil(t, unclaimed[1].ClaimedAt)

	claimedAt := base.Add(24 * time.Hour)
	require.NoError(t, repo.MarkClaimed(ctx, first.ID, claimedAt))

	unclaimed, err = repo.ListUnclaimedByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, unclaimed, 1)
	assert.Equal(t, second.ID, unclaimed[0].ID)

	var claimed model.AirDrop
	require.NoError(t, db.First(&claimed, "id = ?", first.ID).Error)
	assert.True(t, claimed.IsClaimed)
	require.NotNil(t, claimed.ClaimedAt)
	assert.True(t, claimed.ClaimedAt.Equal(claimedAt))
}

func TestAirDropRepositoryMarkClaimedMissing(t *testing.T) {
	repo := NewAirDropRepositoryWithDB(newTestDB(t))
	err := repo.MarkClaimed(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
