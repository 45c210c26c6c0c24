package model

import (
	"time"

	"github.com/google/uuid"
)

type CashSessionStatus string

const (
	CashSessionOpen   CashSessionStatus = "open"
	CashSessionClosed CashSessionStatus = "closed"
)

// CashSession tracks the cash drawer for one cashier between opening and
// closing the register. Expected cash is reconciled against counted cash
// at close time from the cash-method sales recorded during the session.
type CashSession struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id" validate:"uuid_required"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	OpeningCash int64             `gorm:"not null" json:"opening_cash" validate:"gte=0"`
	Status      CashSessionStatus `gorm:"type:varchar(10);not null;default:'open'" json:"status"`
	OpenedAt    time.Time         `gorm:"not null" json:"opened_at"`
	ClosedAt    *time.Time        `json:"closed_at,omitempty"`

	// Filled at close time
	TotalCashSales int64  `json:"total_cash_sales"`
	ExpectedCash   int64  `json:"expected_cash"`
	ClosingCash    *int64 `json:"closing_cash,omitempty"`
	Difference     *int64 `json:"difference,omitempty"`

	Note string `gorm:"type:text" json:"note,omitempty"`
}

// TableName specifies the table name for GORM
func (CashSession) TableName() string {
	return "cash_sessions"
}

// IsOpen reports whether the session is still accepting sales.
func (s *CashSession) IsOpen() bool {
	return s.Status == CashSessionOpen
}
