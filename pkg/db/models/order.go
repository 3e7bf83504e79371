package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/daghlis/gallery-backend/pkg/enums"
	"github.com/daghlis/gallery-backend/pkg/types"
)

// Order is the admin order-book record of a successfully submitted checkout.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	GatewayOrderID  string                `gorm:"column:gateway_order_id;not null;default:''"`
	PaymentID       string                `gorm:"column:payment_id;not null;default:''"`
	PaymentMethod   enums.PaymentMethod   `gorm:"column:payment_method;not null"`
	Status          enums.OrderStatus     `gorm:"column:status;not null;default:'pending'"`
	CustomerName    string                `gorm:"column:customer_name;not null"`
	CustomerEmail   string                `gorm:"column:customer_email;not null"`
	CustomerPhone   string                `gorm:"column:customer_phone;not null"`
	ShippingAddress types.ShippingAddress `gorm:"column:shipping_address;not null"`
	DestinationTier enums.DestinationTier `gorm:"column:destination_tier;not null"`
	Currency        string                `gorm:"column:currency;not null"`
	Language        enums.Language        `gorm:"column:language;not null;default:'en'"`
	SubtotalCents   int64                 `gorm:"column:subtotal_cents;not null"`
	ShippingCents   int64                 `gorm:"column:shipping_cents;not null"`
	TaxCents        int64                 `gorm:"column:tax_cents;not null"`
	TotalCents      int64                 `gorm:"column:total_cents;not null"`
	SessionID       string                `gorm:"column:session_id;not null;default:''"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`

	LineItems []OrderLineItem `gorm:"foreignKey:OrderID;references:ID"`
}

func (Order) TableName() string { return "orders" }
