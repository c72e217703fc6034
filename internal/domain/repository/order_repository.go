package repository

import (
	"context"
	"time"

	"github.com/sangkips/lotus-pos/internal/domain/entity"
	"github.com/sangkips/lotus-pos/internal/domain/enum"
	"github.com/sangkips/lotus-pos/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uint) (*entity.Order, error)
	// GetByIDForUpdate reads the order and locks its row until the surrounding
	// transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*entity.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	// FindRecentByEmployee returns the newest order taken by employeeID with one
	// of the given statuses created within [since, until].
	FindRecentByEmployee(ctx context.Context, employeeID uint, statuses []enum.OrderStatus, since, until time.Time) (*entity.Order, error)
	GetWithDetails(ctx context.Context, id uint) (*entity.Order, error)
	// UpdateDetails writes only the fields an open order may change: buffet
	// package, buffet quantity and notes. Status and total have their own writers.
	UpdateDetails(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id uint, status enum.OrderStatus) error
	UpdateTotal(ctx context.Context, id uint, total float64) error
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.OrderStatus
	TableID    *uint
	EmployeeID *uint
	StartDate  *time.Time
	EndDate    *time.Time
}

// OrderItemRepository defines the interface for order item data operations
type OrderItemRepository interface {
	// GetByOrderAndFood returns the single row for (orderID, foodItemID), locking
	// it for update where the database supports row locks.
	GetByOrderAndFood(ctx context.Context, orderID, foodItemID uint) (*entity.OrderItem, error)
	Create(ctx context.Context, item *entity.OrderItem) error
	Update(ctx context.Context, item *entity.OrderItem) error
	Delete(ctx context.Context, id uint) error
	ListByOrderID(ctx context.Context, orderID uint) ([]entity.OrderItem, error)
}

// TicketLedgerRepository defines the interface for the append-only buffet ticket ledger
type TicketLedgerRepository interface {
	Append(ctx context.Context, entry *entity.TicketLedgerEntry) error
	ListByOrderID(ctx context.Context, orderID uint) ([]entity.TicketLedgerEntry, error)
}
