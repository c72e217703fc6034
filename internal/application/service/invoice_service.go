package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sangkips/lotus-pos/internal/config"
	"github.com/sangkips/lotus-pos/internal/domain/entity"
	"github.com/sangkips/lotus-pos/internal/domain/enum"
	"github.com/sangkips/lotus-pos/internal/domain/repository"
	"github.com/sangkips/lotus-pos/pkg/apperror"
	"github.com/sangkips/lotus-pos/pkg/pagination"
	"github.com/sangkips/lotus-pos/pkg/utils"
)

// InvoiceService creates invoices at payment time and renders them back
type InvoiceService struct {
	txManager       repository.TransactionManager
	invoiceRepo     repository.InvoiceRepository
	invoiceItemRepo repository.InvoiceItemRepository
	orderRepo       repository.OrderRepository
	catalogRepo     repository.CatalogRepository
	employeeRepo    repository.EmployeeRepository
	customerRepo    repository.CustomerRepository
	resolver        *OrderResolver
	ticketIDs       map[uint]bool
	minItems        int
	now             func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	txManager repository.TransactionManager,
	invoiceRepo repository.InvoiceRepository,
	invoiceItemRepo repository.InvoiceItemRepository,
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	employeeRepo repository.EmployeeRepository,
	customerRepo repository.CustomerRepository,
	cfg config.ReconcileConfig,
) *InvoiceService {
	ticketIDs := make(map[uint]bool, len(cfg.TicketIDs))
	for _, id := range cfg.TicketIDs {
		ticketIDs[id] = true
	}
	minItems := cfg.MinItems
	if minItems < 1 {
		minItems = 1
	}
	return &InvoiceService{
		txManager:       txManager,
		invoiceRepo:     invoiceRepo,
		invoiceItemRepo: invoiceItemRepo,
		orderRepo:       orderRepo,
		catalogRepo:     catalogRepo,
		employeeRepo:    employeeRepo,
		customerRepo:    customerRepo,
		resolver:        NewOrderResolver(orderRepo, cfg.RecentWindow),
		ticketIDs:       ticketIDs,
		minItems:        minItems,
		now:             time.Now,
	}
}

// InvoiceItemInput is an explicit line sent with a payment. FoodItemID wins
// over ServiceID when both are set.
type InvoiceItemInput struct {
	FoodItemID uint
	ServiceID  uint
	Quantity   int
	UnitPrice  float64
}

// CreateInvoiceInput represents a payment
type CreateInvoiceInput struct {
	CustomerID    *uint
	EmployeeID    *uint
	OrderID       *uint
	OrderNumber   string
	Items         []InvoiceItemInput
	Notes         string
	PaymentMethod string
	Discount      float64
}

// CreateInvoice records a payment. When fewer lines than the configured
// minimum are submitted, the originating order is located and its tickets and
// items become the invoice lines.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.InvoiceDetail, error) {
	if input.Discount < 0 {
		return nil, apperror.NewBadRequestError("discount cannot be negative")
	}
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	var subtotal float64
	lines := make([]entity.InvoiceItem, 0, len(input.Items))
	for i, item := range input.Items {
		serviceID := item.ServiceID
		if item.FoodItemID != 0 {
			serviceID = item.FoodItemID
		}
		if serviceID == 0 {
			return nil, apperror.NewBadRequestErrorf("items[%d]: food_item_id or service_id is required", i)
		}
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestErrorf("items[%d]: quantity must be positive", i)
		}
		if item.UnitPrice < 0 {
			return nil, apperror.NewBadRequestErrorf("items[%d]: unit_price cannot be negative", i)
		}
		line := entity.InvoiceItem{
			ServiceID: serviceID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		subtotal += line.LineTotal()
		lines = append(lines, line)
	}

	now := s.now()
	invoice := &entity.Invoice{
		InvoiceNumber: utils.GenerateInvoiceNumber(now),
		CustomerID:    input.CustomerID,
		EmployeeID:    input.EmployeeID,
		OrderID:       input.OrderID,
		Discount:      input.Discount,
		PaymentStatus: enum.PaymentStatusPaid,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
	}
	invoice.ApplyTotals(subtotal)

	var reconciliation entity.Reconciliation
	err := s.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Invoices().Create(ctx, invoice); err != nil {
			return err
		}
		for i := range lines {
			lines[i].InvoiceID = invoice.ID
		}
		if err := r.InvoiceItems().CreateBatch(ctx, lines); err != nil {
			return err
		}

		if len(lines) >= s.minItems {
			reconciliation = entity.Reconciliation{
				Status:  entity.ReconcileSkipped,
				OrderID: invoice.OrderID,
				Reason:  fmt.Sprintf("%d items submitted", len(lines)),
			}
			if invoice.OrderID == nil {
				return nil
			}
			order, err := r.Orders().GetByID(ctx, *invoice.OrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return apperror.NewNotFoundError("Order")
			}
			return closeOrder(ctx, r, order)
		}

		res := s.resolver.WithOrders(r.Orders()).WithClock(s.now).Resolve(ctx, invoice, ResolveHints{
			OrderID:     input.OrderID,
			OrderNumber: input.OrderNumber,
			At:          now,
		})
		reconciliation = res.Reconciliation
		if !res.Reconciliation.Resolved() {
			return nil
		}
		return s.billOrder(ctx, r, invoice, res.Order.ID, &reconciliation)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Invoice %s created (total %.2f, reconciliation %s)", invoice.InvoiceNumber, invoice.TotalAmount, reconciliation.Status)

	detail, err := s.GetInvoiceDetail(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	detail.Reconciliation = reconciliation
	return detail, nil
}

// billOrder replaces the invoice lines with the order's tickets and items,
// links the invoice to the order and closes the order.
func (s *InvoiceService) billOrder(ctx context.Context, r repository.TxRepos, invoice *entity.Invoice, orderID uint, rec *entity.Reconciliation) error {
	order, err := r.Orders().GetWithDetails(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	lines, subtotal, err := synthesizeInvoiceLines(ctx, r.Catalog(), invoice.ID, order)
	if err != nil {
		return err
	}

	invoice.OrderID = &order.ID
	if len(lines) == 0 {
		rec.Reason = "matched order has no items, kept submitted lines"
		return r.Invoices().Update(ctx, invoice)
	}

	if err := r.InvoiceItems().DeleteByInvoiceID(ctx, invoice.ID); err != nil {
		return err
	}
	if err := r.InvoiceItems().CreateBatch(ctx, lines); err != nil {
		return err
	}
	invoice.ApplyTotals(subtotal)
	if err := r.Invoices().Update(ctx, invoice); err != nil {
		return err
	}

	return closeOrder(ctx, r, order)
}

// closeOrder marks a billed order paid and frees its table. Orders that are
// already closed keep their status, and their table may be seating someone
// else by now.
func closeOrder(ctx context.Context, r repository.TxRepos, order *entity.Order) error {
	if order.Status.IsTerminal() {
		return nil
	}
	if order.Status.CanTransitionTo(enum.OrderStatusPaid) {
		if err := r.Orders().UpdateStatus(ctx, order.ID, enum.OrderStatusPaid); err != nil {
			return err
		}
	}
	return r.Tables().UpdateStatus(ctx, order.TableID, enum.TableStatusAvailable)
}

// synthesizeInvoiceLines builds one line per buffet package (ledger
// quantities summed) followed by one line per order item.
func synthesizeInvoiceLines(ctx context.Context, catalog repository.CatalogRepository, invoiceID uint, order *entity.Order) ([]entity.InvoiceItem, float64, error) {
	var lines []entity.InvoiceItem
	var subtotal float64

	if len(order.Tickets) > 0 {
		prices, err := packagePrices(ctx, catalog, order.Tickets)
		if err != nil {
			return nil, 0, err
		}

		quantities := make(map[uint]int)
		var packageOrder []uint
		for _, entry := range order.Tickets {
			if _, ok := quantities[entry.BuffetPackageID]; !ok {
				packageOrder = append(packageOrder, entry.BuffetPackageID)
			}
			quantities[entry.BuffetPackageID] += entry.Quantity
		}

		for _, packageID := range packageOrder {
			price, ok := prices[packageID]
			if !ok {
				log.Printf("Order %d: buffet package %d not found, ticket line dropped", order.ID, packageID)
				continue
			}
			if quantities[packageID] <= 0 {
				continue
			}
			line := entity.InvoiceItem{
				InvoiceID: invoiceID,
				ServiceID: packageID,
				Quantity:  quantities[packageID],
				UnitPrice: price,
			}
			subtotal += line.LineTotal()
			lines = append(lines, line)
		}
	}

	for _, item := range order.Items {
		line := entity.InvoiceItem{
			InvoiceID: invoiceID,
			ServiceID: item.FoodItemID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		subtotal += line.LineTotal()
		lines = append(lines, line)
	}

	return lines, subtotal, nil
}

// GetInvoiceDetail returns an invoice with display lines. An invoice stored
// without lines is rendered from the order it was paid for.
func (s *InvoiceService) GetInvoiceDetail(ctx context.Context, id uint) (*entity.InvoiceDetail, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	detail := &entity.InvoiceDetail{
		Invoice:      invoice,
		Items:        []entity.InvoiceLine{},
		EmployeeName: s.employeeName(ctx, invoice),
		Source:       entity.DetailSourceNone,
	}

	raw, err := s.invoiceItemRepo.ListByInvoiceID(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}

	if len(raw) > 0 {
		var order *entity.Order
		if invoice.OrderID != nil {
			order, err = s.orderRepo.GetByID(ctx, *invoice.OrderID)
			if err != nil {
				log.Printf("Invoice %s: failed to load order %d: %v", invoice.InvoiceNumber, *invoice.OrderID, err)
			}
		}

		detail.Items, err = s.describeItems(ctx, raw, order, detail.EmployeeName)
		if err != nil {
			return nil, err
		}
		detail.Source = entity.DetailSourceInvoiceItems
		if order != nil {
			detail.Reconciliation = entity.Reconciliation{
				Status:   entity.ReconcileResolved,
				Strategy: entity.MatchInvoiceOrderID,
				OrderID:  invoice.OrderID,
			}
		} else {
			detail.Reconciliation = entity.Reconciliation{Status: entity.ReconcileSkipped}
		}
		return detail, nil
	}

	at := invoice.CreatedAt
	if at.IsZero() {
		at = s.now()
	}
	res := s.resolver.WithClock(s.now).Resolve(ctx, invoice, ResolveHints{At: at})
	detail.Reconciliation = res.Reconciliation
	if !res.Reconciliation.Resolved() {
		return detail, nil
	}

	order, err := s.orderRepo.GetWithDetails(ctx, res.Order.ID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return detail, nil
	}
	detail.Items = projectOrderLines(order, detail.EmployeeName)
	if len(detail.Items) > 0 {
		detail.Source = entity.DetailSourceOrderFallback
	}
	return detail, nil
}

// describeItems names raw invoice lines. service_id is a buffet package when it
// is one of the ticket ids or the order's package, and a food item otherwise.
func (s *InvoiceService) describeItems(ctx context.Context, raw []entity.InvoiceItem, order *entity.Order, employeeName string) ([]entity.InvoiceLine, error) {
	isTicket := func(serviceID uint) bool {
		if s.ticketIDs[serviceID] {
			return true
		}
		return order != nil && order.BuffetPackageID != nil && *order.BuffetPackageID == serviceID
	}

	var packageIDs, foodIDs []uint
	for _, item := range raw {
		if isTicket(item.ServiceID) {
			packageIDs = append(packageIDs, item.ServiceID)
		} else {
			foodIDs = append(foodIDs, item.ServiceID)
		}
	}

	pkgs, err := s.catalogRepo.GetBuffetPackagesByIDs(ctx, packageIDs)
	if err != nil {
		return nil, err
	}
	packageNames := make(map[uint]string, len(pkgs))
	for _, pkg := range pkgs {
		packageNames[pkg.ID] = pkg.Name
	}

	foods, err := s.catalogRepo.GetFoodItemsByIDs(ctx, foodIDs)
	if err != nil {
		return nil, err
	}
	foodNames := make(map[uint]string, len(foods))
	for _, food := range foods {
		foodNames[food.ID] = food.Name
	}

	lines := make([]entity.InvoiceLine, 0, len(raw))
	for _, item := range raw {
		line := entity.InvoiceLine{
			ServiceID:    item.ServiceID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			TotalPrice:   item.TotalPrice,
			EmployeeName: employeeName,
		}
		if isTicket(item.ServiceID) {
			line.Kind = entity.LineKindTicket
			line.Name = packageNames[item.ServiceID]
			if line.Name == "" {
				line.Name = fmt.Sprintf("Buffet ticket #%d", item.ServiceID)
			}
		} else {
			line.Kind = entity.LineKindFood
			line.Name = foodNames[item.ServiceID]
			if line.Name == "" {
				line.Name = fmt.Sprintf("Item #%d", item.ServiceID)
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// projectOrderLines renders an order as invoice lines: one ticket line with
// every ledger row summed, then the food items.
func projectOrderLines(order *entity.Order, employeeName string) []entity.InvoiceLine {
	lines := make([]entity.InvoiceLine, 0, len(order.Items)+1)

	var tickets int
	for _, entry := range order.Tickets {
		tickets += entry.Quantity
	}
	if tickets > 0 {
		pkg := order.BuffetPackage
		if pkg == nil {
			pkg = order.Tickets[0].BuffetPackage
		}
		line := entity.InvoiceLine{
			Kind:         entity.LineKindTicket,
			Quantity:     tickets,
			EmployeeName: employeeName,
		}
		if pkg != nil {
			line.ServiceID = pkg.ID
			line.Name = pkg.Name
			line.UnitPrice = pkg.Price
		} else {
			line.ServiceID = order.Tickets[0].BuffetPackageID
			line.Name = fmt.Sprintf("Buffet ticket #%d", line.ServiceID)
		}
		line.TotalPrice = line.UnitPrice * float64(tickets)
		lines = append(lines, line)
	}

	for _, item := range order.Items {
		line := entity.InvoiceLine{
			ServiceID:    item.FoodItemID,
			Kind:         entity.LineKindFood,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			TotalPrice:   item.TotalPrice,
			EmployeeName: employeeName,
		}
		if item.FoodItem != nil {
			line.Name = item.FoodItem.Name
		} else {
			line.Name = fmt.Sprintf("Item #%d", item.FoodItemID)
		}
		lines = append(lines, line)
	}
	return lines
}

func (s *InvoiceService) employeeName(ctx context.Context, invoice *entity.Invoice) string {
	if invoice.Employee != nil {
		return invoice.Employee.FullName
	}
	if invoice.EmployeeID == nil {
		return ""
	}
	employee, err := s.employeeRepo.GetByID(ctx, *invoice.EmployeeID)
	if err != nil {
		log.Printf("Invoice %s: failed to load employee %d: %v", invoice.InvoiceNumber, *invoice.EmployeeID, err)
		return ""
	}
	if employee == nil {
		return ""
	}
	return employee.FullName
}

// ListInvoices lists invoices with filtering
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}
