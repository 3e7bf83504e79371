package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/daghlis/gallery-backend/pkg/types"
)

// OrderLineItem captures the cart line snapshot at submission time.
type OrderLineItem struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	ItemID         string              `gorm:"column:item_id;not null"`
	Title          types.LocalizedText `gorm:"column:title;not null"`
	Image          string              `gorm:"column:image;not null;default:''"`
	Size           string              `gorm:"column:size;not null;default:''"`
	Year           int                 `gorm:"column:year;not null;default:0"`
	UnitPriceCents int64               `gorm:"column:unit_price_cents;not null"`
	Quantity       int                 `gorm:"column:quantity;not null"`
	LineTotalCents int64               `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (OrderLineItem) TableName() string { return "order_line_items" }
