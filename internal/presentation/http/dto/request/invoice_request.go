package request

// InvoiceItemRequest is an explicit invoice line. food_item_id wins over
// service_id when both are sent.
type InvoiceItemRequest struct {
	FoodItemID uint    `json:"food_item_id"`
	ServiceID  uint    `json:"service_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// CreateInvoiceRequest represents a payment
type CreateInvoiceRequest struct {
	CustomerID    *uint                `json:"customer_id"`
	OrderID       *uint                `json:"order_id"`
	OrderNumber   string               `json:"order_number" binding:"omitempty,max=50"`
	Items         []InvoiceItemRequest `json:"items"`
	Notes         string               `json:"notes" binding:"omitempty,max=1000"`
	PaymentMethod string               `json:"payment_method" binding:"required,max=50"`
	Discount      float64              `json:"discount"`
}

// InvoiceFilterRequest represents invoice list filters
type InvoiceFilterRequest struct {
	PaymentStatus string `form:"payment_status"`
	EmployeeID    uint   `form:"employee_id"`
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}
