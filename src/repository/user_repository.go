package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"spotnet/src/database"
	"spotnet/src/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository() *UserRepository {
	logger.WithField("component", "UserRepository").
		Info("Creating new UserRepository with MainDB")

	return &UserRepository{
		db: database.MainDB,
	}
}

func NewUserRepositoryWithDB(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. The id is generated when not set.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":      "UserRepository",
			"op":        "Create",
			"wallet_id": user.WalletID,
		}).WithError(err).Error("Failed to create user")
		return err
	}
	return nil
}

// GetByWalletID returns the user owning walletID.
// Returns (nil, nil) if the user is not found.
func (r *UserRepository) GetByWalletID(ctx context.Context, walletID string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &u, nil
}

// MarkContractDeployed records the user's deployed contract address.
func (r *UserRepository) MarkContractDeployed(ctx context.Context, userID uuid.UUID, contractAddress string) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_contract_deployed": true,
			"contract_address":     contractAddress,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.WithFields(map[string]interface{}{
		"repo":     "UserRepository",
		"op":       "MarkContractDeployed",
		"user_id":  userID,
		"contract": contractAddress,
	}).Info("User contract marked as deployed")

	return nil
}
