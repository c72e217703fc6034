package request

// OrderItemRequest is a food line on an order request
type OrderItemRequest struct {
	FoodItemID          uint     `json:"food_item_id" binding:"required"`
	Quantity            int      `json:"quantity"`
	UnitPrice           *float64 `json:"unit_price"`
	SpecialInstructions string   `json:"special_instructions" binding:"omitempty,max=500"`
}

// CreateOrderRequest represents an order creation request
type CreateOrderRequest struct {
	TableID         uint               `json:"table_id" binding:"required"`
	BuffetPackageID *uint              `json:"buffet_package_id"`
	BuffetQuantity  int                `json:"buffet_quantity"`
	CustomerID      *uint              `json:"customer_id"`
	Notes           string             `json:"notes" binding:"omitempty,max=1000"`
	Items           []OrderItemRequest `json:"items" binding:"dive"`
}

// UpdateOrderRequest adds tickets or dishes to an open order
type UpdateOrderRequest struct {
	BuffetPackageID *uint              `json:"buffet_package_id"`
	BuffetQuantity  int                `json:"buffet_quantity"`
	Notes           *string            `json:"notes" binding:"omitempty,max=1000"`
	Items           []OrderItemRequest `json:"items" binding:"dive"`
}

// UpdateItemQuantityRequest sets a line's quantity; zero or less removes it
type UpdateItemQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// UpdateOrderStatusRequest represents a status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderFilterRequest represents order list filters
type OrderFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	TableID    uint   `form:"table_id"`
	EmployeeID uint   `form:"employee_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
