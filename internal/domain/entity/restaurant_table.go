package entity

import (
	"time"

	"github.com/sangkips/lotus-pos/internal/domain/enum"
)

// RestaurantTable is a seat group orders are placed against
type RestaurantTable struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Name      string           `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Capacity  int              `gorm:"default:4" json:"capacity"`
	Status    enum.TableStatus `gorm:"size:20;not null;default:available" json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TableName returns the table name for the RestaurantTable model
func (RestaurantTable) TableName() string {
	return "restaurant_tables"
}
