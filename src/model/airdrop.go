package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AirDrop is a reward allocated to a user.
// Callers keep ClaimedAt set if and only if IsClaimed is true; the schema does not check it.
type AirDrop struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	Amount    decimal.NullDecimal `gorm:"type:numeric" json:"amount"`
	IsClaimed bool                `gorm:"column:is_claimed;default:false;index" json:"is_claimed"`
	ClaimedAt *time.Time          `gorm:"column:claimed_at" json:"claimed_at,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (AirDrop) TableName() string {
	return "airdrop"
}

func (a *AirDrop) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// MarkClaimed sets the claimed flag and its timestamp together.
func (a *AirDrop) MarkClaimed(at time.Time) {
	claimedAt := at.UTC()
	a.IsClaimed = true
	a.ClaimedAt = &claimedAt
}
