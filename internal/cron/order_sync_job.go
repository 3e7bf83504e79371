package cron

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/daghlis/gallery-backend/internal/gateway"
	"github.com/daghlis/gallery-backend/pkg/db/models"
	"github.com/daghlis/gallery-backend/pkg/enums"
	"github.com/daghlis/gallery-backend/pkg/logger"
)

const (
	defaultSyncGrace     = 15 * time.Minute
	defaultPendingExpiry = 72 * time.Hour
	defaultSyncBatch     = 100
)

type pendingOrderReader interface {
	FindPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
}

type remoteOrderReader interface {
	GetOrder(ctx context.Context, id string) (*gateway.OrderRecord, error)
}

type orderSyncer interface {
	SyncFromGateway(ctx context.Context, id uuid.UUID, remoteStatus string) (enums.OrderStatus, error)
}

// OrderSyncJobParams configure the pending order reconciler.
type OrderSyncJobParams struct {
	Logger  *logger.Logger
	Pending pendingOrderReader
	Remote  remoteOrderReader
	Orders  orderSyncer

	// Grace skips orders younger than this so a buyer mid-redirect is left alone.
	Grace time.Duration
	// Expiry cancels orders still pending after this long.
	Expiry    time.Duration
	BatchSize int
}

// NewOrderSyncJob builds the job that settles pending orders, mostly wallet
// payments the buyer never came back from, against the payment service.
func NewOrderSyncJob(params OrderSyncJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Pending == nil {
		return nil, fmt.Errorf("pending orders reader required")
	}
	if params.Remote == nil {
		return nil, fmt.Errorf("gateway lookup required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	job := &orderSyncJob{
		logg:    params.Logger,
		pending: params.Pending,
		remote:  params.Remote,
		orders:  params.Orders,
		grace:   params.Grace,
		expiry:  params.Expiry,
		batch:   params.BatchSize,
		now:     time.Now,
	}
	if job.grace <= 0 {
		job.grace = defaultSyncGrace
	}
	if job.expiry <= job.grace {
		job.expiry = defaultPendingExpiry
	}
	if job.batch <= 0 {
		job.batch = defaultSyncBatch
	}
	return job, nil
}

type orderSyncJob struct {
	logg    *logger.Logger
	pending pendingOrderReader
	remote  remoteOrderReader
	orders  orderSyncer
	grace   time.Duration
	expiry  time.Duration
	batch   int
	now     func() time.Time
}

func (j *orderSyncJob) Name() string { return "order-sync" }

// Run keeps going past per-order failures and reports them together.
func (j *orderSyncJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	rows, err := j.pending.FindPendingBefore(ctx, now.Add(-j.grace), j.batch)
	if err != nil {
		return fmt.Errorf("query pending orders: %w", err)
	}

	var errs error
	counts := map[enums.OrderStatus]int{}
	for _, order := range rows {
		status, err := j.syncOrder(ctx, order, now)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", order.ID, err))
			continue
		}
		counts[status]++
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"checked":   len(rows),
		"completed": counts[enums.OrderStatusCompleted],
		"cancelled": counts[enums.OrderStatusCancelled],
		"pending":   counts[enums.OrderStatusPending],
		"failed":    len(multierr.Errors(errs)),
	}), "cron.order_sync_complete")
	return errs
}

func (j *orderSyncJob) syncOrder(ctx context.Context, order models.Order, now time.Time) (enums.OrderStatus, error) {
	expired := now.Sub(order.CreatedAt) >= j.expiry

	if order.GatewayOrderID == "" {
		if expired {
			return j.orders.SyncFromGateway(ctx, order.ID, string(enums.OrderStatusCancelled))
		}
		return enums.OrderStatusPending, nil
	}

	record, err := j.remote.GetOrder(ctx, order.GatewayOrderID)
	if err != nil {
		var gwErr *gateway.Error
		if expired && errors.As(err, &gwErr) && gwErr.StatusCode == http.StatusNotFound {
			return j.orders.SyncFromGateway(ctx, order.ID, string(enums.OrderStatusCancelled))
		}
		return "", err
	}

	status, err := j.orders.SyncFromGateway(ctx, order.ID, record.Status)
	if err != nil {
		return "", err
	}
	if status == enums.OrderStatusPending && expired {
		return j.orders.SyncFromGateway(ctx, order.ID, string(enums.OrderStatusCancelled))
	}
	return status, nil
}
