package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/text/currency"

	"github.com/daghlis/gallery-backend/internal/catalog"
	"github.com/daghlis/gallery-backend/internal/orders"
	"github.com/daghlis/gallery-backend/pkg/enums"
	"github.com/daghlis/gallery-backend/pkg/money"
)

type catalogStats interface {
	Stats() catalog.Stats
}

type orderStats interface {
	Stats(ctx context.Context) (orders.Stats, error)
}

// Summary is the admin dashboard payload.
type Summary struct {
	TotalArtworks     int    `json:"total_artworks"`
	AvailableArtworks int    `json:"available_artworks"`
	SoldArtworks      int    `json:"sold_artworks"`
	TotalOrders       int64  `json:"total_orders"`
	PendingOrders     int64  `json:"pending_orders"`
	CompletedOrders   int64  `json:"completed_orders"`
	CancelledOrders   int64  `json:"cancelled_orders"`
	Revenue           string `json:"revenue"`
	RevenueDisplay    string `json:"revenue_display"`
	Currency          string `json:"currency"`
}

type Service struct {
	catalog  catalogStats
	orders   orderStats
	currency currency.Unit
}

func NewService(cat catalogStats, ord orderStats, unit currency.Unit) (*Service, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if ord == nil {
		return nil, fmt.Errorf("orders service required")
	}
	return &Service{catalog: cat, orders: ord, currency: unit}, nil
}

// Summary combines catalog counts with the order book. Revenue is the sum of
// completed order totals.
func (s *Service) Summary(ctx context.Context, lang enums.Language) (*Summary, error) {
	cs := s.catalog.Stats()
	ord, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, err
	}
	revenue := money.FromMinor(ord.RevenueCents)
	return &Summary{
		TotalArtworks:     cs.Total,
		AvailableArtworks: cs.Available,
		SoldArtworks:      cs.Sold,
		TotalOrders:       ord.Total,
		PendingOrders:     ord.Pending,
		CompletedOrders:   ord.Completed,
		CancelledOrders:   ord.Cancelled,
		Revenue:           revenue.String(),
		RevenueDisplay:    money.Format(revenue, s.currency, lang),
		Currency:          s.currency.String(),
	}, nil
}
