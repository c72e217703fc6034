package repository

import (
	"context"

	"github.com/sangkips/lotus-pos/internal/domain/entity"
	"github.com/sangkips/lotus-pos/internal/domain/enum"
)

// CustomerRepository defines lookups on customers
type CustomerRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Customer, error)
}

// EmployeeRepository defines lookups on employees
type EmployeeRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.Employee, error)
}

// TableRepository defines the interface for restaurant table operations
type TableRepository interface {
	GetByID(ctx context.Context, id uint) (*entity.RestaurantTable, error)
	List(ctx context.Context) ([]entity.RestaurantTable, error)
	UpdateStatus(ctx context.Context, id uint, status enum.TableStatus) error
}
