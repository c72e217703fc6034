package entity

import (
	"time"

	"github.com/sangkips/lotus-pos/internal/domain/enum"
)

// Order represents a restaurant order placed against a table
type Order struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	OrderNumber     string           `gorm:"size:50;uniqueIndex;not null" json:"order_number"`
	TableID         uint             `gorm:"not null;index" json:"table_id"`
	BuffetPackageID *uint            `gorm:"index" json:"buffet_package_id,omitempty"`
	BuffetQuantity  int              `gorm:"default:0" json:"buffet_quantity"`
	EmployeeID      *uint            `gorm:"index" json:"employee_id,omitempty"`
	CustomerID      *uint            `gorm:"index" json:"customer_id,omitempty"`
	Status          enum.OrderStatus `gorm:"size:20;not null;default:open;index" json:"status"`
	Notes           string           `gorm:"type:text" json:"notes,omitempty"`
	TotalAmount     float64          `gorm:"type:numeric(12,2);default:0" json:"total_amount"`
	CreatedAt       time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	// Relationships
	Table         *RestaurantTable    `gorm:"foreignKey:TableID" json:"table,omitempty"`
	BuffetPackage *BuffetPackage      `gorm:"foreignKey:BuffetPackageID" json:"buffet_package,omitempty"`
	Employee      *Employee           `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Tickets       []TicketLedgerEntry `gorm:"foreignKey:OrderID" json:"tickets,omitempty"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents a food line on an order. There is at most one row per
// (order, food item); repeated additions bump the quantity.
type OrderItem struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	OrderID             uint      `gorm:"not null;uniqueIndex:idx_order_items_order_food" json:"order_id"`
	FoodItemID          uint      `gorm:"not null;uniqueIndex:idx_order_items_order_food" json:"food_item_id"`
	Quantity            int       `gorm:"not null" json:"quantity"`
	UnitPrice           float64   `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice          float64   `gorm:"type:numeric(12,2);not null" json:"total_price"`
	SpecialInstructions string    `gorm:"type:text" json:"special_instructions,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	// Relationships
	FoodItem *FoodItem `gorm:"foreignKey:FoodItemID" json:"food_item,omitempty"`
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// Recalculate sets TotalPrice from UnitPrice and Quantity
func (oi *OrderItem) Recalculate() {
	oi.TotalPrice = oi.UnitPrice * float64(oi.Quantity)
}

// TicketLedgerEntry records one "add tickets" action on an order. Rows are
// append-only: the tickets sold on an order are the sum across its entries.
type TicketLedgerEntry struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OrderID         uint      `gorm:"not null;index" json:"order_id"`
	BuffetPackageID uint      `gorm:"not null;index" json:"buffet_package_id"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	CreatedAt       time.Time `json:"created_at"`

	// Relationships
	BuffetPackage *BuffetPackage `gorm:"foreignKey:BuffetPackageID" json:"buffet_package,omitempty"`
}

// TableName returns the table name for the TicketLedgerEntry model
func (TicketLedgerEntry) TableName() string {
	return "order_buffets"
}
