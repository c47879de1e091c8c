package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"spotnet/src/database"
	"spotnet/src/model"
)

// ErrInvalidStatus is returned when a status outside the position enum is written.
var ErrInvalidStatus = errors.New("invalid position status")

// PositionRepository handles read/write operations for positions.
type PositionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a new repository instance using the main read/write database.
func NewPositionRepository() *PositionRepository {
	logger.WithField("component", "PositionRepository").
		Info("Creating new PositionRepository with MainDB")

	return &PositionRepository{
		db: database.MainDB,
	}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *PositionRepository) WithDB(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Create inserts a new position. Status defaults to pending.
func (r *PositionRepository) Create(ctx context.Context, position *model.Position) error {
	if position.Status != "" && !position.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, position.Status)
	}

	logger.WithFields(map[string]interface{}{
		"repo":       "PositionRepository",
		"op":         "Create",
		"user_id":    position.UserID,
		"symbol":     position.TokenSymbol,
		"amount":     position.Amount.String(),
		"multiplier": position.Multiplier,
	}).Debug("Creating new position")

	if err := r.db.WithContext(ctx).Create(position).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "PositionRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create position")
		return err
	}

	return nil
}

// FindByID returns (nil, nil) if the position is not found.
func (r *PositionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Position, error) {
	var p model.Position
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListByUser returns the user's positions, newest first, optionally filtered by status.
func (r *PositionRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	status *model.PositionStatus,
) ([]model.Position, error) {

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var positions []model.Position
	if err := query.Order("created_at DESC").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// UpdateStatus sets the status of a position. Any enum value may replace any other.
func (r *PositionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PositionStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	res := r.db.WithContext(ctx).
		Model(&model.Position{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.WithFields(map[string]interface{}{
		"repo":        "PositionRepository",
		"op":          "UpdateStatus",
		"position_id": id,
		"status":      status,
	}).Info("Position status updated")

	return nil
}
