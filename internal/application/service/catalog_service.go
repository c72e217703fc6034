package service

import (
	"context"

	"github.com/sangkips/lotus-pos/internal/domain/entity"
	"github.com/sangkips/lotus-pos/internal/domain/repository"
)

// CatalogService exposes the menu, buffet packages and floor plan
type CatalogService struct {
	catalogRepo repository.CatalogRepository
	tableRepo   repository.TableRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo repository.CatalogRepository, tableRepo repository.TableRepository) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		tableRepo:   tableRepo,
	}
}

// ListFoodItems returns the menu, optionally only dishes currently available
func (s *CatalogService) ListFoodItems(ctx context.Context, onlyAvailable bool) ([]entity.FoodItem, error) {
	items, err := s.catalogRepo.ListFoodItems(ctx, onlyAvailable)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.FoodItem{}
	}
	return items, nil
}

func (s *CatalogService) ListBuffetPackages(ctx context.Context, onlyActive bool) ([]entity.BuffetPackage, error) {
	pkgs, err := s.catalogRepo.ListBuffetPackages(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	if pkgs == nil {
		pkgs = []entity.BuffetPackage{}
	}
	return pkgs, nil
}

func (s *CatalogService) ListTables(ctx context.Context) ([]entity.RestaurantTable, error) {
	tables, err := s.tableRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if tables == nil {
		tables = []entity.RestaurantTable{}
	}
	return tables, nil
}
