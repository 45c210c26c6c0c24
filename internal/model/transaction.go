package model

import "github.com/google/uuid"

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentQRIS PaymentMethod = "qris"
)

// Valid reports whether the payment method is one of the enumerated values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentQRIS:
		return true
	}
	return false
}

type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusPending   TransactionStatus = "pending"
	StatusCancelled TransactionStatus = "cancelled"
)

// Valid reports whether the status is one of the enumerated values.
func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusCancelled:
		return true
	}
	return false
}

type Transaction struct {
	BaseModel
	TransactionNumber string            `gorm:"type:varchar(32);uniqueIndex;not null" json:"transaction_number"`
	UserID            *string           `gorm:"type:varchar(255)" json:"user_id,omitempty"`
	User              *User             `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	TotalAmount       int64             `gorm:"not null" json:"total_amount"` // Inklusif pajak
	PaymentMethod     PaymentMethod     `gorm:"type:varchar(10);not null" json:"payment_method" validate:"required,oneof=cash card qris"`
	Status            TransactionStatus `gorm:"type:varchar(10);not null;default:'completed'" json:"status"`
	Notes             string            `gorm:"type:text" json:"notes"`

	Details []TransactionDetail `gorm:"foreignKey:TransactionID" json:"details,omitempty"`
}

// TransactionDetail is one line item of a completed sale. Product name and
// unit price are snapshots so historical receipts survive catalog edits.
type TransactionDetail struct {
	BaseModel
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName   string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity      int       `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice     int64     `gorm:"not null" json:"unit_price"`
	Subtotal      int64     `gorm:"not null" json:"subtotal"` // Quantity * UnitPrice, pra-pajak
}
