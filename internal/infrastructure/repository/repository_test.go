package repository

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/lotus-pos/internal/domain/entity"
	"github.com/sangkips/lotus-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/lotus-pos/internal/domain/repository"
	"github.com/sangkips/lotus-pos/internal/infrastructure/database"
	"github.com/sangkips/lotus-pos/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:", &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedDefaultData(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createOrder(t *testing.T, db *gorm.DB, number string) *entity.Order {
	t.Helper()
	order := &entity.Order{OrderNumber: number, TableID: 1, Status: enum.OrderStatusOpen}
	require.NoError(t, NewOrderRepository(db).Create(context.Background(), order))
	require.NotZero(t, order.ID)
	return order
}

func TestOrderRepository_GetByOrderNumber(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)

	created := createOrder(t, db, "BUF-77")

	got, err := repo.GetByOrderNumber(ctx, "BUF-77")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	missing, err := repo.GetByOrderNumber(ctx, "BUF-78")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepository_FindRecentByEmployee(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)

	waiter := &entity.Employee{FullName: "Mai", Role: "waiter", Active: true}
	other := &entity.Employee{FullName: "Huy", Role: "waiter", Active: true}
	require.NoError(t, db.Create(waiter).Error)
	require.NoError(t, db.Create(other).Error)

	now := time.Now().UTC()
	add := func(number string, employeeID uint, status enum.OrderStatus, age time.Duration) {
		t.Helper()
		id := employeeID
		require.NoError(t, repo.Create(ctx, &entity.Order{
			OrderNumber: number,
			TableID:     1,
			EmployeeID:  &id,
			Status:      status,
			CreatedAt:   now.Add(-age),
		}))
	}
	add("ORD-OLD", waiter.ID, enum.OrderStatusServed, 16*time.Minute)
	add("ORD-IN", waiter.ID, enum.OrderStatusServed, 14*time.Minute)
	add("ORD-CANCELLED", waiter.ID, enum.OrderStatusCancelled, 2*time.Minute)
	add("ORD-OTHER", other.ID, enum.OrderStatusOpen, time.Minute)

	since, until := now.Add(-15*time.Minute), now
	got, err := repo.FindRecentByEmployee(ctx, waiter.ID, enum.RecentMatchStatuses(), since, until)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ORD-IN", got.OrderNumber)

	add("ORD-PAID", waiter.ID, enum.OrderStatusPaid, 5*time.Minute)
	got, err = repo.FindRecentByEmployee(ctx, waiter.ID, enum.RecentMatchStatuses(), since, until)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ORD-PAID", got.OrderNumber, "newest order with an eligible status wins")

	none, err := repo.FindRecentByEmployee(ctx, waiter.ID, enum.RecentMatchStatuses(), now.Add(-30*time.Minute), now.Add(-20*time.Minute))
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestOrderRepository_UpdateDetailsKeepsStatusAndTotal(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewOrderRepository(db)

	order := createOrder(t, db, "ORD-2")
	require.NoError(t, repo.UpdateTotal(ctx, order.ID, 240000))

	stale, err := repo.GetByIDForUpdate(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, stale)

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enum.OrderStatusPaid))

	stale.Notes = "no onions"
	stale.TotalAmount = 1
	stale.BuffetQuantity = 2
	stale.BuffetPackageID = func() *uint { id := uint(1); return &id }()
	require.NoError(t, repo.UpdateDetails(ctx, stale))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusPaid, got.Status)
	assert.InDelta(t, 240000, got.TotalAmount, 0.001)
	assert.Equal(t, "no onions", got.Notes)
	assert.Equal(t, 2, got.BuffetQuantity)
	require.NotNil(t, got.BuffetPackageID)
	assert.Equal(t, uint(1), *got.BuffetPackageID)

	missing, err := repo.GetByIDForUpdate(ctx, order.ID+100)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderItemRepository_SingleRowPerFood(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	order := createOrder(t, db, "ORD-1")
	items := NewOrderItemRepository(db)

	first := &entity.OrderItem{OrderID: order.ID, FoodItemID: 103, Quantity: 2, UnitPrice: 120000}
	first.Recalculate()
	require.NoError(t, items.Create(ctx, first))

	dup := &entity.OrderItem{OrderID: order.ID, FoodItemID: 103, Quantity: 1, UnitPrice: 120000}
	assert.Error(t, items.Create(ctx, dup), "second row for the same food must violate the unique index")

	existing, err := items.GetByOrderAndFood(ctx, order.ID, 103)
	require.NoError(t, err)
	require.NotNil(t, existing)

	existing.Quantity += 1
	existing.Recalculate()
	require.NoError(t, items.Update(ctx, existing))

	rows, err := items.ListByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Quantity)
	assert.InDelta(t, 360000, rows[0].TotalPrice, 0.001)
	require.NotNil(t, rows[0].FoodItem)
	assert.Equal(t, "Grilled Prawns", rows[0].FoodItem.Name)

	require.NoError(t, items.Delete(ctx, existing.ID))
	gone, err := items.GetByOrderAndFood(ctx, order.ID, 103)
	assert.NoError(t, err)
	assert.Nil(t, gone)
}

func TestTicketLedgerRepository_AppendOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	order := createOrder(t, db, "BUF-1")
	ledger := NewTicketLedgerRepository(db)

	require.NoError(t, ledger.Append(ctx, &entity.TicketLedgerEntry{OrderID: order.ID, BuffetPackageID: 1, Quantity: 2}))
	require.NoError(t, ledger.Append(ctx, &entity.TicketLedgerEntry{OrderID: order.ID, BuffetPackageID: 1, Quantity: 1}))

	entries, err := ledger.ListByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].Quantity)
	assert.Equal(t, 1, entries[1].Quantity)
}

func TestInvoiceItemRepository_GeneratedTotal(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	invoice := &entity.Invoice{InvoiceNumber: "INV-1", PaymentStatus: enum.PaymentStatusPaid}
	require.NoError(t, NewInvoiceRepository(db).Create(ctx, invoice))

	items := NewInvoiceItemRepository(db)
	require.NoError(t, items.CreateBatch(ctx, []entity.InvoiceItem{
		{InvoiceID: invoice.ID, ServiceID: 1, Quantity: 3, UnitPrice: 199000},
		{InvoiceID: invoice.ID, ServiceID: 105, Quantity: 2, UnitPrice: 30000},
	}))

	rows, err := items.ListByInvoiceID(ctx, invoice.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.InDelta(t, 597000, rows[0].TotalPrice, 0.001)
	assert.InDelta(t, 60000, rows[1].TotalPrice, 0.001)

	require.NoError(t, items.DeleteByInvoiceID(ctx, invoice.ID))
	rows, err = items.ListByInvoiceID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestInvoiceRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewInvoiceRepository(db)

	employee := &entity.Employee{FullName: "Lan", Role: "cashier", Active: true}
	require.NoError(t, db.Create(employee).Error)

	require.NoError(t, repo.Create(ctx, &entity.Invoice{InvoiceNumber: "INV-1", EmployeeID: &employee.ID, PaymentStatus: enum.PaymentStatusPaid}))
	require.NoError(t, repo.Create(ctx, &entity.Invoice{InvoiceNumber: "INV-2", PaymentStatus: enum.PaymentStatusUnpaid}))

	paid := enum.PaymentStatusPaid
	invoices, total, err := repo.List(ctx, &domainRepo.InvoiceFilterParams{
		Pagination:    pagination.DefaultPagination(),
		PaymentStatus: &paid,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-1", invoices[0].InvoiceNumber)

	got, err := repo.GetByID(ctx, invoices[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got.Employee)
	assert.Equal(t, "Lan", got.Employee.FullName)
}

func TestTransactionManager_RollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tm := NewTransactionManager(db)

	err := tm.WithinTx(ctx, func(r domainRepo.TxRepos) error {
		order := &entity.Order{OrderNumber: "ORD-TX", TableID: 1, Status: enum.OrderStatusOpen}
		if err := r.Orders().Create(ctx, order); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	got, err := NewOrderRepository(db).GetByOrderNumber(ctx, "ORD-TX")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTableRepository_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewTableRepository(db)

	require.NoError(t, repo.UpdateStatus(ctx, 1, enum.TableStatusOccupied))
	table, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, table)
	assert.Equal(t, enum.TableStatusOccupied, table.Status)

	tables, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tables, 5)
}

func TestCatalogRepository_Lists(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewCatalogRepository(db)

	pkgs, err := repo.GetBuffetPackagesByIDs(ctx, []uint{1, 2})
	require.NoError(t, err)
	assert.Len(t, pkgs, 2)

	empty, err := repo.GetFoodItemsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	foods, err := repo.ListFoodItems(ctx, true)
	require.NoError(t, err)
	assert.Len(t, foods, 6)
}
