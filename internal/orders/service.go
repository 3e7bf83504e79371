package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/daghlis/gallery-backend/internal/gateway"
	"github.com/daghlis/gallery-backend/pkg/db"
	"github.com/daghlis/gallery-backend/pkg/db/models"
	"github.com/daghlis/gallery-backend/pkg/enums"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/logger"
	"github.com/daghlis/gallery-backend/pkg/pagination"
	"github.com/daghlis/gallery-backend/pkg/types"
)

// Service exposes the admin order book.
type Service interface {
	Record(ctx context.Context, sessionID string, req gateway.OrderRequest, res gateway.OrderResult) error
	MarkCompleted(ctx context.Context, gatewayOrderID string) error
	Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDetail, error)
	Delete(ctx context.Context, id uuid.UUID, confirmed bool) error
	Stats(ctx context.Context) (Stats, error)
	SyncFromGateway(ctx context.Context, id uuid.UUID, remoteStatus string) (enums.OrderStatus, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the order book service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

// Record stores a placed order. Orders paid on submit are completed; the
// rest stay pending until the wallet payment is executed.
func (s *service) Record(ctx context.Context, sessionID string, req gateway.OrderRequest, res gateway.OrderResult) error {
	order := &models.Order{
		GatewayOrderID:  res.OrderID,
		PaymentID:       res.PaymentID,
		PaymentMethod:   req.PaymentMethod,
		Status:          statusFromGateway(res.Status),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		DestinationTier: req.Destination,
		Currency:        req.Currency,
		Language:        req.Language,
		SubtotalCents:   req.Subtotal.Int64(),
		ShippingCents:   req.Shipping.Int64(),
		TaxCents:        req.Tax.Int64(),
		TotalCents:      req.Total.Int64(),
		SessionID:       sessionID,
	}
	for _, item := range req.Items {
		order.LineItems = append(order.LineItems, models.OrderLineItem{
			ItemID:         item.ItemID,
			Title:          types.LocalizedText{req.Language: item.Title},
			Image:          item.Image,
			Size:           item.Size,
			Year:           item.Year,
			UnitPriceCents: item.UnitPrice.Int64(),
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotal.Int64(),
		})
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record order")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":         created.ID.String(),
		"gateway_order_id": created.GatewayOrderID,
		"status":           created.Status.String(),
	}), "orders.recorded")
	return nil
}

func (s *service) MarkCompleted(ctx context.Context, gatewayOrderID string) error {
	order, err := s.repo.FindByGatewayOrderID(ctx, strings.TrimSpace(gatewayOrderID))
	if err != nil {
		return mapLookupError(err, "order "+gatewayOrderID+" not found")
	}
	if err := s.repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCompleted); err != nil {
		return mapLookupError(err, "order "+gatewayOrderID+" not found")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "order not found")
	}
	return detailFromModel(*order), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	rows, next, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if _, parseErr := pagination.ParseCursor(params.Cursor); parseErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	out := &OrderList{Orders: make([]OrderSummary, 0, len(rows)), NextCursor: next}
	for _, row := range rows {
		out.Orders = append(out.Orders, summaryFromModel(row))
	}
	return out, nil
}

// UpdateStatus allows any transition between the three statuses.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*OrderDetail, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]string{"status": "must be one of pending, completed, cancelled"})
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, mapLookupError(err, "order not found")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": id.String(),
		"status":   status.String(),
	}), "orders.status_updated")
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return pkgerrors.New(pkgerrors.CodeValidation, "delete requires confirmation")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapLookupError(err, "order not found")
	}
	s.logg.Info(s.logg.WithOrderID(ctx, id.String()), "orders.deleted")
	return nil
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	st, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "order stats")
	}
	return st, nil
}

// SyncFromGateway stores the payment service's view of an order. A remote
// status that still reads as pending leaves the row untouched.
func (s *service) SyncFromGateway(ctx context.Context, id uuid.UUID, remoteStatus string) (enums.OrderStatus, error) {
	status := statusFromGateway(remoteStatus)
	if status == enums.OrderStatusPending {
		return status, nil
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return "", mapLookupError(err, "order not found")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id":      id.String(),
		"status":        status.String(),
		"remote_status": remoteStatus,
	}), "orders.synced")
	return status, nil
}

func statusFromGateway(status string) enums.OrderStatus {
	switch gateway.Settle(status) {
	case gateway.SettlementCompleted:
		return enums.OrderStatusCompleted
	case gateway.SettlementFailed:
		return enums.OrderStatusCancelled
	default:
		return enums.OrderStatusPending
	}
}

func mapLookupError(err error, msg string) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}
