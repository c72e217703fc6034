package repository

import (
	"context"
	"errors"

	"github.com/sangkips/lotus-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/lotus-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) domainRepo.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetFoodItem(ctx context.Context, id uint) (*entity.FoodItem, error) {
	var item entity.FoodItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepository) GetFoodItemsByIDs(ctx context.Context, ids []uint) ([]entity.FoodItem, error) {
	var items []entity.FoodItem
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *catalogRepository) ListFoodItems(ctx context.Context, onlyAvailable bool) ([]entity.FoodItem, error) {
	var items []entity.FoodItem
	query := r.db.WithContext(ctx).Model(&entity.FoodItem{})
	if onlyAvailable {
		query = query.Where("available = ?", true)
	}
	err := query.Order("category ASC, name ASC").Find(&items).Error
	return items, err
}

func (r *catalogRepository) GetBuffetPackage(ctx context.Context, id uint) (*entity.BuffetPackage, error) {
	var pkg entity.BuffetPackage
	err := r.db.WithContext(ctx).First(&pkg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *catalogRepository) GetBuffetPackagesByIDs(ctx context.Context, ids []uint) ([]entity.BuffetPackage, error) {
	var pkgs []entity.BuffetPackage
	if len(ids) == 0 {
		return pkgs, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pkgs).Error
	return pkgs, err
}

func (r *catalogRepository) ListBuffetPackages(ctx context.Context, onlyActive bool) ([]entity.BuffetPackage, error) {
	var pkgs []entity.BuffetPackage
	query := r.db.WithContext(ctx).Model(&entity.BuffetPackage{})
	if onlyActive {
		query = query.Where("active = ?", true)
	}
	err := query.Order("id ASC").Find(&pkgs).Error
	return pkgs, err
}
