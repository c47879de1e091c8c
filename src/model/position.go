package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PositionStatus mirrors the postgres enum "status_enum".
type PositionStatus string

const (
	PositionStatusPending PositionStatus = "pending"
	PositionStatusOpened  PositionStatus = "opened"
	PositionStatusClosed  PositionStatus = "closed"
)

// PositionStatusEnumName is the database type backing Position.Status.
const PositionStatusEnumName = "status_enum"

// PositionStatusChoices returns every status value in declaration order.
func PositionStatusChoices() []PositionStatus {
	return []PositionStatus{PositionStatusPending, PositionStatusOpened, PositionStatusClosed}
}

func (s PositionStatus) IsValid() bool {
	switch s {
	case PositionStatusPending, PositionStatusOpened, PositionStatusClosed:
		return true
	}
	return false
}

func (s PositionStatus) String() string {
	return string(s)
}

// Value stores the status as its string label. An empty status is stored as NULL.
func (s PositionStatus) Value() (driver.Value, error) {
	if s == "" {
		return nil, nil
	}
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid position status %q", string(s))
	}
	return string(s), nil
}

func (s *PositionStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = ""
		return nil
	case string:
		*s = PositionStatus(v)
	case []byte:
		*s = PositionStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into PositionStatus", value)
	}
	if !s.IsValid() {
		return fmt.Errorf("invalid position status %q", string(*s))
	}
	return nil
}

// Position is a leveraged position opened by a user on a single token.
// Status has no enforced transitions; whoever updates the row decides.
type Position struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenSymbol string          `gorm:"column:token_symbol;not null" json:"token_symbol"`
	Amount      decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Multiplier  int             `gorm:"not null" json:"multiplier"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	Status      PositionStatus  `gorm:"type:status_enum;default:pending" json:"status"`
	StartPrice  decimal.Decimal `gorm:"column:start_price;type:numeric;not null" json:"start_price"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Position) TableName() string {
	return "position"
}

func (p *Position) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PositionStatusPending
	}
	return nil
}
