package repository

import (
	"context"

	"github.com/sangkips/lotus-pos/internal/domain/entity"
)

// CatalogRepository gives read access to food items and buffet packages
type CatalogRepository interface {
	GetFoodItem(ctx context.Context, id uint) (*entity.FoodItem, error)
	GetFoodItemsByIDs(ctx context.Context, ids []uint) ([]entity.FoodItem, error)
	ListFoodItems(ctx context.Context, onlyAvailable bool) ([]entity.FoodItem, error)
	GetBuffetPackage(ctx context.Context, id uint) (*entity.BuffetPackage, error)
	GetBuffetPackagesByIDs(ctx context.Context, ids []uint) ([]entity.BuffetPackage, error)
	ListBuffetPackages(ctx context.Context, onlyActive bool) ([]entity.BuffetPackage, error)
}
