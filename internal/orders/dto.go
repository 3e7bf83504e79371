package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/daghlis/gallery-backend/pkg/db/models"
	"github.com/daghlis/gallery-backend/pkg/enums"
	"github.com/daghlis/gallery-backend/pkg/money"
	"github.com/daghlis/gallery-backend/pkg/types"
)

// ListFilters narrows the admin order list.
type ListFilters struct {
	Status *enums.OrderStatus
}

// OrderSummary is one row of the admin order list.
type OrderSummary struct {
	ID             uuid.UUID           `json:"id"`
	GatewayOrderID string              `json:"gateway_order_id"`
	Status         enums.OrderStatus   `json:"status"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	CustomerName   string              `json:"customer_name"`
	CustomerEmail  string              `json:"customer_email"`
	Currency       string              `json:"currency"`
	Total          string              `json:"total"`
	TotalItems     int                 `json:"total_items"`
	CreatedAt      time.Time           `json:"created_at"`
}

// OrderList wraps a page of orders plus the next cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

type LineItemDetail struct {
	ItemID    string              `json:"item_id"`
	Title     types.LocalizedText `json:"title"`
	Image     string              `json:"image,omitempty"`
	Size      string              `json:"size,omitempty"`
	Year      int                 `json:"year,omitempty"`
	UnitPrice string              `json:"unit_price"`
	Quantity  int                 `json:"quantity"`
	LineTotal string              `json:"line_total"`
}

// OrderDetail is the full admin view of one order.
type OrderDetail struct {
	OrderSummary
	PaymentID       string                `json:"payment_id,omitempty"`
	CustomerPhone   string                `json:"customer_phone"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	Destination     enums.DestinationTier `json:"destination"`
	Language        enums.Language        `json:"language"`
	Subtotal        string                `json:"subtotal"`
	Shipping        string                `json:"shipping"`
	Tax             string                `json:"tax"`
	LineItems       []LineItemDetail      `json:"line_items"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// Stats feeds the admin dashboard. Revenue counts completed orders only.
type Stats struct {
	Total        int64
	Pending      int64
	Completed    int64
	Cancelled    int64
	RevenueCents int64
}

func summaryFromModel(o models.Order) OrderSummary {
	items := 0
	for _, li := range o.LineItems {
		items += li.Quantity
	}
	return OrderSummary{
		ID:             o.ID,
		GatewayOrderID: o.GatewayOrderID,
		Status:         o.Status,
		PaymentMethod:  o.PaymentMethod,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		Currency:       o.Currency,
		Total:          money.FromMinor(o.TotalCents).String(),
		TotalItems:     items,
		CreatedAt:      o.CreatedAt,
	}
}

func detailFromModel(o models.Order) *OrderDetail {
	lines := make([]LineItemDetail, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		lines = append(lines, LineItemDetail{
			ItemID:    li.ItemID,
			Title:     li.Title,
			Image:     li.Image,
			Size:      li.Size,
			Year:      li.Year,
			UnitPrice: money.FromMinor(li.UnitPriceCents).String(),
			Quantity:  li.Quantity,
			LineTotal: money.FromMinor(li.LineTotalCents).String(),
		})
	}
	return &OrderDetail{
		OrderSummary:    summaryFromModel(o),
		PaymentID:       o.PaymentID,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		Destination:     o.DestinationTier,
		Language:        o.Language,
		Subtotal:        money.FromMinor(o.SubtotalCents).String(),
		Shipping:        money.FromMinor(o.ShippingCents).String(),
		Tax:             money.FromMinor(o.TaxCents).String(),
		LineItems:       lines,
		UpdatedAt:       o.UpdatedAt,
	}
}
