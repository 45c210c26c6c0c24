package model

import "github.com/google/uuid"

// DefaultAlertStock is used when a product has no explicit low-stock threshold.
const DefaultAlertStock = 5

type Product struct {
	BaseModel
	Name        string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int64     `gorm:"default:0" json:"price" validate:"gte=0"`
	Stock       int       `gorm:"default:0" json:"stock" validate:"gte=0"`
	AlertStock  int       `gorm:"default:0" json:"alert_stock" validate:"gte=0"` // 0 = pakai DefaultAlertStock
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	ImageURL    string    `gorm:"type:text" json:"image_url"`
	Barcode     string    `gorm:"type:varchar(64);index" json:"barcode"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`
}

// AlertThreshold returns the effective low-stock threshold.
func (p *Product) AlertThreshold() int {
	if p.AlertStock <= 0 {
		return DefaultAlertStock
	}
	return p.AlertStock
}

// IsLowStock reports whether the product is at or below its alert threshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.AlertThreshold()
}
