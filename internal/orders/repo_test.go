package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/daghlis/gallery-backend/internal/gateway"
	"github.com/daghlis/gallery-backend/pkg/db"
	"github.com/daghlis/gallery-backend/pkg/db/models"
	"github.com/daghlis/gallery-backend/pkg/enums"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/migrate"
	"github.com/daghlis/gallery-backend/pkg/money"
	"github.com/daghlis/gallery-backend/pkg/pagination"
	"github.com/daghlis/gallery-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrate.Run(context.Background(), sqlDB, db.DialectSQLite, "", "up"))
	return conn
}

func sampleOrder(createdAt time.Time, status enums.OrderStatus, totalCents int64) *models.Order {
	return &models.Order{
		GatewayOrderID: "gw-" + uuid.NewString()[:8],
		PaymentMethod:  enums.PaymentMethodCard,
		Status:         status,
		CustomerName:   "Layla Haddad",
		CustomerEmail:  "layla@example.com",
		CustomerPhone:  "+33 6 12 34 56 78",
		ShippingAddress: types.ShippingAddress{
			Address: "12 Rue des Arts", City: "Lyon", PostalCode: "69001", Country: "domestic",
		},
		DestinationTier: enums.DestinationDomestic,
		Currency:        "EUR",
		Language:        enums.LanguageEnglish,
		SubtotalCents:   totalCents,
		TotalCents:      totalCents,
		CreatedAt:       createdAt,
		LineItems: []models.OrderLineItem{{
			ItemID:         "1",
			Title:          types.LocalizedText{enums.LanguageEnglish: "Desert Sunset"},
			UnitPriceCents: totalCents,
			Quantity:       1,
			LineTotalCents: totalCents,
		}},
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleOrder(time.Time{}, enums.OrderStatusPending, 150000))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.GatewayOrderID, found.GatewayOrderID)
	assert.Equal(t, "Lyon", found.ShippingAddress.City)
	require.Len(t, found.LineItems, 1)
	assert.Equal(t, "Desert Sunset", found.LineItems[0].Title.Get(enums.LanguageEnglish))

	byGateway, err := repo.FindByGatewayOrderID(ctx, created.GatewayOrderID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byGateway.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, db.IsNotFound(err))
}

func TestRepositoryListPaginates(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		status := enums.OrderStatusPending
		if i%2 == 0 {
			status = enums.OrderStatusCompleted
		}
		o, err := repo.Create(ctx, sampleOrder(base.Add(time.Duration(i)*time.Minute), status, 1000))
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	page, next, err := repo.List(ctx, pagination.Params{Limit: 2}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)
	require.NotEmpty(t, next)

	page, next, err = repo.List(ctx, pagination.Params{Limit: 2, Cursor: next}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)

	page, next, err = repo.List(ctx, pagination.Params{Limit: 2, Cursor: next}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Empty(t, next)

	completed := enums.OrderStatusCompleted
	page, _, err = repo.List(ctx, pagination.Params{}, ListFilters{Status: &completed})
	require.NoError(t, err)
	assert.Len(t, page, 3)
}

func TestRepositoryStatusDeleteAndStats(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	a, err := repo.Create(ctx, sampleOrder(time.Time{}, enums.OrderStatusCompleted, 150000))
	require.NoError(t, err)
	b, err := repo.Create(ctx, sampleOrder(time.Time{}, enums.OrderStatusPending, 50000))
	require.NoError(t, err)
	_, err = repo.Create(ctx, sampleOrder(time.Time{}, enums.OrderStatusCancelled, 70000))
	require.NoError(t, err)

	st, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 3, Pending: 1, Completed: 1, Cancelled: 1, RevenueCents: 150000}, st)

	require.NoError(t, repo.UpdateStatus(ctx, b.ID, enums.OrderStatusCompleted))
	st, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), st.RevenueCents)

	assert.True(t, db.IsNotFound(repo.UpdateStatus(ctx, uuid.New(), enums.OrderStatusCancelled)))

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.True(t, db.IsNotFound(repo.Delete(ctx, a.ID)))

	var orphans int64
	require.NoError(t, setupCount(repo, &orphans, a.ID))
	assert.Zero(t, orphans)
}

func setupCount(repo Repository, out *int64, orderID uuid.UUID) error {
	return repo.(*repository).DB(context.Background()).Model(&models.OrderLineItem{}).Where("order_id = ?", orderID).Count(out).Error
}

func TestServiceRecordAndAdminOperations(t *testing.T) {
	svc, err := NewService(NewRepository(setupOrdersTestDB(t)), nil)
	require.NoError(t, err)
	ctx := context.Background()

	req := gateway.OrderRequest{
		CustomerName:    "Layla Haddad",
		CustomerEmail:   "layla@example.com",
		CustomerPhone:   "+33 6 12 34 56 78",
		ShippingAddress: types.ShippingAddress{Address: "12 Rue des Arts", City: "Lyon", PostalCode: "69001", Country: "domestic"},
		Destination:     enums.DestinationDomestic,
		Items: []gateway.LineItem{{
			ItemID: "1", Title: "Desert Sunset", UnitPrice: money.FromMinor(125000), Quantity: 1, LineTotal: money.FromMinor(125000),
		}},
		PaymentMethod: enums.PaymentMethodWallet,
		Subtotal:      money.FromMinor(125000),
		Tax:           money.FromMinor(25000),
		Total:         money.FromMinor(150000),
		Currency:      "EUR",
		Language:      enums.LanguageEnglish,
	}
	require.NoError(t, svc.Record(ctx, "sess-1", req, gateway.OrderResult{OrderID: "ord_1", Status: gateway.StatusPending, PaymentID: "PAY-1"}))

	list, err := svc.List(ctx, pagination.Params{}, ListFilters{})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	summary := list.Orders[0]
	assert.Equal(t, enums.OrderStatusPending, summary.Status)
	assert.Equal(t, "1500.00", summary.Total)
	assert.Equal(t, 1, summary.TotalItems)

	require.NoError(t, svc.MarkCompleted(ctx, "ord_1"))
	detail, err := svc.Get(ctx, summary.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, detail.Status)
	assert.Equal(t, "250.00", detail.Tax)
	assert.Equal(t, "PAY-1", detail.PaymentID)

	detail, err = svc.UpdateStatus(ctx, summary.ID, enums.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, detail.Status)

	_, err = svc.UpdateStatus(ctx, summary.ID, enums.OrderStatus("shipped"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, summary.ID, false), pkgerrors.CodeValidation))
	require.NoError(t, svc.Delete(ctx, summary.ID, true))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, summary.ID, true), pkgerrors.CodeNotFound))
	_, err = svc.Get(ctx, summary.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	assert.True(t, pkgerrors.IsCode(svc.MarkCompleted(ctx, "unknown"), pkgerrors.CodeNotFound))

	_, err = svc.List(ctx, pagination.Params{Cursor: "%%%"}, ListFilters{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestStatusFromGateway(t *testing.T) {
	cases := map[string]enums.OrderStatus{
		"completed": enums.OrderStatusCompleted,
		"Succeeded": enums.OrderStatusCompleted,
		"pending":   enums.OrderStatusPending,
		"":          enums.OrderStatusPending,
		"failed":    enums.OrderStatusCancelled,
	}
	for in, want := range cases {
		assert.Equal(t, want, statusFromGateway(in), in)
	}
}

func TestRepositoryFindPendingBefore(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	old, err := repo.Create(ctx, sampleOrder(now.Add(-3*time.Hour), enums.OrderStatusPending, 10000))
	require.NoError(t, err)
	older, err := repo.Create(ctx, sampleOrder(now.Add(-5*time.Hour), enums.OrderStatusPending, 10000))
	require.NoError(t, err)
	_, err = repo.Create(ctx, sampleOrder(now.Add(-10*time.Minute), enums.OrderStatusPending, 10000))
	require.NoError(t, err)
	_, err = repo.Create(ctx, sampleOrder(now.Add(-6*time.Hour), enums.OrderStatusCompleted, 10000))
	require.NoError(t, err)

	rows, err := repo.FindPendingBefore(ctx, now.Add(-time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, older.ID, rows[0].ID)
	assert.Equal(t, old.ID, rows[1].ID)

	rows, err = repo.FindPendingBefore(ctx, now.Add(-time.Hour), 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestServiceSyncFromGateway(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	svc, err := NewService(repo, nil)
	require.NoError(t, err)
	ctx := context.Background()

	order, err := repo.Create(ctx, sampleOrder(time.Time{}, enums.OrderStatusPending, 10000))
	require.NoError(t, err)

	status, err := svc.SyncFromGateway(ctx, order.ID, "created")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, status)

	status, err = svc.SyncFromGateway(ctx, order.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, status)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, found.Status)

	_, err = svc.SyncFromGateway(ctx, uuid.New(), "failed")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
