package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/lotus-pos/internal/application/service"
	"github.com/sangkips/lotus-pos/internal/domain/enum"
	"github.com/sangkips/lotus-pos/internal/domain/repository"
	"github.com/sangkips/lotus-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/lotus-pos/internal/presentation/http/dto/response"
)

// InvoiceHandler handles payment and invoice requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		StartDate:  parseDate(filter.StartDate, false),
		EndDate:    parseDate(filter.EndDate, true),
	}
	if filter.PaymentStatus != "" {
		status := enum.PaymentStatus(filter.PaymentStatus)
		if !status.IsValid() {
			response.BadRequest(c, "Invalid payment status")
			return
		}
		params.PaymentStatus = &status
	}
	if filter.EmployeeID != 0 {
		params.EmployeeID = &filter.EmployeeID
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Create handles taking a payment. The response carries the reconciliation
// outcome so the cashier can see which order was billed.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	items := make([]service.InvoiceItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.InvoiceItemInput{
			FoodItemID: item.FoodItemID,
			ServiceID:  item.ServiceID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		})
	}

	detail, err := h.invoiceService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
		CustomerID:    req.CustomerID,
		EmployeeID:    GetEmployeeID(c),
		OrderID:       req.OrderID,
		OrderNumber:   req.OrderNumber,
		Items:         items,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
		Discount:      req.Discount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", detail)
}

// Get handles reading an invoice with its display lines
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	detail, err := h.invoiceService.GetInvoiceDetail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", detail)
}
