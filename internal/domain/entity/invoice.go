package entity

import (
	"time"

	"github.com/sangkips/lotus-pos/internal/domain/enum"
)

// Invoice is created when an order (or a walk-in sale) is paid
type Invoice struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	InvoiceNumber string             `gorm:"size:50;uniqueIndex;not null" json:"invoice_number"`
	CustomerID    *uint              `gorm:"index" json:"customer_id,omitempty"`
	EmployeeID    *uint              `gorm:"index" json:"employee_id,omitempty"`
	OrderID       *uint              `gorm:"index" json:"order_id,omitempty"`
	Subtotal      float64            `gorm:"type:numeric(12,2);default:0" json:"subtotal"`
	Discount      float64            `gorm:"type:numeric(12,2);default:0" json:"discount"`
	Tax           float64            `gorm:"type:numeric(12,2);default:0" json:"tax"`
	TotalAmount   float64            `gorm:"type:numeric(12,2);default:0" json:"total_amount"`
	PaymentStatus enum.PaymentStatus `gorm:"size:20;not null;default:unpaid" json:"payment_status"`
	PaymentMethod string             `gorm:"size:50" json:"payment_method,omitempty"`
	Notes         string             `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	// Relationships
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Employee *Employee     `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// ApplyTotals sets Subtotal, Tax and TotalAmount from the given line subtotal.
// Tax is always zero.
func (i *Invoice) ApplyTotals(subtotal float64) {
	i.Subtotal = subtotal
	i.Tax = 0
	i.TotalAmount = subtotal - i.Discount + i.Tax
	if i.TotalAmount < 0 {
		i.TotalAmount = 0
	}
}

// InvoiceItem is a billed line. ServiceID holds either a food item id or a
// buffet package id. TotalPrice is generated by the database and read-only;
// AutoMigrate skips it and database.AutoMigrate adds it with its own DDL.
type InvoiceItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	InvoiceID  uint      `gorm:"not null;index" json:"invoice_id"`
	ServiceID  uint      `gorm:"not null;index" json:"service_id"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`
	UnitPrice  float64   `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice float64   `gorm:"->;-:migration;column:total_price" json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// LineTotal is the value the database derives for TotalPrice
func (ii *InvoiceItem) LineTotal() float64 {
	return ii.UnitPrice * float64(ii.Quantity)
}
