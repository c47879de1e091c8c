package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a wallet known to the application. A user owns positions and airdrops.
type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IsContractDeployed bool      `gorm:"column:is_contract_deployed;default:false" json:"is_contract_deployed"`
	WalletID           string    `gorm:"column:wallet_id;not null;index" json:"wallet_id"`
	ContractAddress    *string   `gorm:"column:contract_address" json:"contract_address,omitempty"`
}

func (User) TableName() string {
	return "user"
}

// BeforeCreate assigns a random id when the caller did not set one.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
