package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"spotnet/src/database"
	"spotnet/src/model"
)

type AirDropRepository struct {
	db *gorm.DB
}

func NewAirDropRepository() *AirDropRepository {
	return &AirDropRepository{
		db: database.MainDB,
	}
}

func NewAirDropRepositoryWithDB(db *gorm.DB) *AirDropRepository {
	return &AirDropRepository{db: db}
}

func (r *AirDropRepository) Create(ctx context.Context, airdrop *model.AirDrop) error {
	return r.db.WithContext(ctx).Create(airdrop).Error
}

// ListUnclaimedByUser returns the user's unclaimed airdrops, oldest first.
func (r *AirDropRepository) ListUnclaimedByUser(ctx context.Context, userID uuid.UUID) ([]model.AirDrop, error) {
	var airdrops []model.AirDrop
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_claimed = ?", userID, false).
		Order("created_at ASC").
		Find(&airdrops).Error
	if err != nil {
		return nil, err
	}
	return airdrops, nil
}

// MarkClaimed flags an airdrop as claimed and stores the claim time in the same update.
func (r *AirDropRepository) MarkClaimed(ctx context.Context, id uuid.UUID, at time.Time) error {
	var claimed model.AirDrop
	claimed.MarkClaimed(at)

	res := r.db.WithContext(ctx).
		Model(&model.AirDrop{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_claimed": claimed.IsClaimed,
			"claimed_at": claimed.ClaimedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.WithFields(map[string]interface{}{
		"repo":       "AirDropRepository",
		"op":         "MarkClaimed",
		"airdrop_id": id,
	}).Info("Airdrop marked as claimed")

	return nil
}
