package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/sangkips/lotus-pos/internal/domain/entity"
	"github.com/sangkips/lotus-pos/internal/domain/enum"
	"github.com/sangkips/lotus-pos/internal/domain/repository"
	"github.com/sangkips/lotus-pos/pkg/apperror"
	"github.com/sangkips/lotus-pos/pkg/broker"
	"github.com/sangkips/lotus-pos/pkg/pagination"
	"github.com/sangkips/lotus-pos/pkg/utils"
)

// Kitchen events carried on published tickets
const (
	KitchenEventCreated    = "created"
	KitchenEventConfirmed  = "confirmed"
	KitchenEventItemsAdded = "items_added"
)

// OrderService handles order-related operations
type OrderService struct {
	txManager    repository.TransactionManager
	orderRepo    repository.OrderRepository
	catalogRepo  repository.CatalogRepository
	tableRepo    repository.TableRepository
	customerRepo repository.CustomerRepository
	publisher    broker.Publisher
	now          func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	txManager repository.TransactionManager,
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	tableRepo repository.TableRepository,
	customerRepo repository.CustomerRepository,
	publisher broker.Publisher,
) *OrderService {
	if publisher == nil {
		publisher = broker.NewNullPublisher()
	}
	return &OrderService{
		txManager:    txManager,
		orderRepo:    orderRepo,
		catalogRepo:  catalogRepo,
		tableRepo:    tableRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

// OrderItemInput represents a food line requested on an order
type OrderItemInput struct {
	FoodItemID uint
	Quantity   int
	// UnitPrice overrides the catalog price when set
	UnitPrice           *float64
	SpecialInstructions string
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	TableID         uint
	BuffetPackageID *uint
	BuffetQuantity  int
	EmployeeID      *uint
	CustomerID      *uint
	Notes           string
	Items           []OrderItemInput
}

// UpdateOrderInput adds tickets and items to an open order
type UpdateOrderInput struct {
	BuffetPackageID *uint
	BuffetQuantity  int
	Notes           *string
	Items           []OrderItemInput
}

// CreateOrder opens a new order on a table
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	if input.TableID == 0 {
		return nil, apperror.NewBadRequestError("table_id is required")
	}
	table, err := s.tableRepo.GetByID(ctx, input.TableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, apperror.NewNotFoundError("Table")
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

	if input.BuffetQuantity < 0 {
		return nil, apperror.NewBadRequestError("buffet_quantity cannot be negative")
	}
	if input.BuffetPackageID != nil {
		if err := s.checkBuffetPackage(ctx, *input.BuffetPackageID); err != nil {
			return nil, err
		}
	} else if input.BuffetQuantity > 0 {
		return nil, apperror.NewBadRequestError("buffet_package_id is required when buffet_quantity is set")
	}

	if err := s.checkItems(ctx, input.Items); err != nil {
		return nil, err
	}

	order := &entity.Order{
		OrderNumber:     utils.GenerateOrderNumber(input.BuffetPackageID != nil, s.now()),
		TableID:         input.TableID,
		BuffetPackageID: input.BuffetPackageID,
		BuffetQuantity:  input.BuffetQuantity,
		EmployeeID:      input.EmployeeID,
		CustomerID:      input.CustomerID,
		Status:          enum.OrderStatusOpen,
		Notes:           input.Notes,
	}

	err = s.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Orders().Create(ctx, order); err != nil {
			return err
		}
		if order.BuffetPackageID != nil && input.BuffetQuantity > 0 {
			if err := appendTickets(ctx, r, order.ID, *order.BuffetPackageID, input.BuffetQuantity); err != nil {
				return err
			}
		}
		for _, item := range input.Items {
			if err := upsertOrderItem(ctx, r, order.ID, item); err != nil {
				return err
			}
		}
		if _, err := recalculateOrderTotal(ctx, r, order.ID); err != nil {
			return err
		}
		return r.Tables().UpdateStatus(ctx, order.TableID, enum.TableStatusOccupied)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.orderRepo.GetWithDetails(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	s.notifyKitchen(ctx, created, KitchenEventCreated)
	return created, nil
}

// UpdateOrder adds buffet tickets and food items to an order that is still open
func (s *OrderService) UpdateOrder(ctx context.Context, orderID uint, input *UpdateOrderInput) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status.IsTerminal() {
		return nil, apperror.ErrOrderClosed
	}

	if input.BuffetQuantity < 0 {
		return nil, apperror.NewBadRequestError("buffet_quantity cannot be negative")
	}
	if input.BuffetPackageID != nil {
		if err := s.checkBuffetPackage(ctx, *input.BuffetPackageID); err != nil {
			return nil, err
		}
		order.BuffetPackageID = input.BuffetPackageID
	}
	if input.BuffetQuantity > 0 && order.BuffetPackageID == nil {
		return nil, apperror.NewBadRequestError("buffet_package_id is required: the order has no buffet package")
	}

	if err := s.checkItems(ctx, input.Items); err != nil {
		return nil, err
	}

	if input.BuffetQuantity > 0 {
		order.BuffetQuantity = input.BuffetQuantity
	}
	if input.Notes != nil {
		order.Notes = *input.Notes
	}

	err = s.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		// a payment may have closed the order since it was read above
		if err := lockOpenOrder(ctx, r, orderID); err != nil {
			return err
		}
		if err := r.Orders().UpdateDetails(ctx, order); err != nil {
			return err
		}
		if input.BuffetQuantity > 0 {
			if err := appendTickets(ctx, r, order.ID, *order.BuffetPackageID, input.BuffetQuantity); err != nil {
				return err
			}
		}
		for _, item := range input.Items {
			if err := upsertOrderItem(ctx, r, order.ID, item); err != nil {
				return err
			}
		}
		_, err := recalculateOrderTotal(ctx, r, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.GetWithDetails(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if input.BuffetQuantity > 0 || hasPositiveQuantity(input.Items) {
		s.notifyKitchen(ctx, updated, KitchenEventItemsAdded)
	}
	return updated, nil
}

// UpdateItemQuantity sets the quantity of one food line. A quantity of zero
// or less removes the line.
func (s *OrderService) UpdateItemQuantity(ctx context.Context, orderID, foodItemID uint, quantity int) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status.IsTerminal() {
		return nil, apperror.ErrOrderClosed
	}

	err = s.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := lockOpenOrder(ctx, r, orderID); err != nil {
			return err
		}
		item, err := r.OrderItems().GetByOrderAndFood(ctx, orderID, foodItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.NewNotFoundError("Order item")
		}

		if quantity <= 0 {
			if err := r.OrderItems().Delete(ctx, item.ID); err != nil {
				return err
			}
		} else {
			item.Quantity = quantity
			item.Recalculate()
			if err := r.OrderItems().Update(ctx, item); err != nil {
				return err
			}
		}

		_, err = recalculateOrderTotal(ctx, r, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// UpdateOrderStatus moves an order along its lifecycle
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, status enum.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, apperror.NewBadRequestErrorf("invalid order status %q", status)
	}

	err := s.txManager.WithinTx(ctx, func(r repository.TxRepos) error {
		current, err := r.Orders().GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperror.NewNotFoundError("Order")
		}
		if current.Status.IsTerminal() {
			return apperror.ErrOrderClosed
		}
		if !current.Status.CanTransitionTo(status) {
			return apperror.NewBadRequestErrorf("cannot move order from %s to %s", current.Status, status)
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, status); err != nil {
			return err
		}
		if status == enum.OrderStatusPaid || status == enum.OrderStatusCancelled {
			return r.Tables().UpdateStatus(ctx, current.TableID, enum.TableStatusAvailable)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if status == enum.OrderStatusConfirmed {
		s.notifyKitchen(ctx, updated, KitchenEventConfirmed)
	}
	return updated, nil
}

// CancelOrder cancels an order and frees its table
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) (*entity.Order, error) {
	return s.UpdateOrderStatus(ctx, orderID, enum.OrderStatusCancelled)
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

func (s *OrderService) checkBuffetPackage(ctx context.Context, id uint) error {
	pkg, err := s.catalogRepo.GetBuffetPackage(ctx, id)
	if err != nil {
		return err
	}
	if pkg == nil {
		return apperror.NewNotFoundError("Buffet package")
	}
	if !pkg.Active {
		return apperror.NewBadRequestErrorf("buffet package %s is not active", pkg.Name)
	}
	return nil
}

// checkItems validates requested lines against the menu in one query
func (s *OrderService) checkItems(ctx context.Context, items []OrderItemInput) error {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if item.FoodItemID == 0 {
			return apperror.NewBadRequestError("food_item_id is required")
		}
		if item.Quantity < 0 {
			return apperror.NewBadRequestErrorf("quantity for food item %d cannot be negative", item.FoodItemID)
		}
		if item.UnitPrice != nil && *item.UnitPrice < 0 {
			return apperror.NewBadRequestErrorf("unit_price for food item %d cannot be negative", item.FoodItemID)
		}
		if item.Quantity > 0 {
			ids = append(ids, item.FoodItemID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	foods, err := s.catalogRepo.GetFoodItemsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	foodMap := make(map[uint]*entity.FoodItem, len(foods))
	for i := range foods {
		foodMap[foods[i].ID] = &foods[i]
	}
	for _, id := range ids {
		food, ok := foodMap[id]
		if !ok {
			return apperror.NewNotFoundError(fmt.Sprintf("Food item %d", id))
		}
		if !food.Available {
			return apperror.NewBadRequestErrorf("%s is not available", food.Name)
		}
	}
	return nil
}

// appendTickets records a ticket purchase. Each call adds a ledger row.
// lockOpenOrder locks the order row for the rest of the transaction and
// fails when the order is missing or already closed.
func lockOpenOrder(ctx context.Context, r repository.TxRepos, orderID uint) error {
	order, err := r.Orders().GetByIDForUpdate(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if order.Status.IsTerminal() {
		return apperror.ErrOrderClosed
	}
	return nil
}

func appendTickets(ctx context.Context, r repository.TxRepos, orderID, packageID uint, quantity int) error {
	return r.Tickets().Append(ctx, &entity.TicketLedgerEntry{
		OrderID:         orderID,
		BuffetPackageID: packageID,
		Quantity:        quantity,
	})
}

// upsertOrderItem merges a requested line into the order. Quantity 0 leaves
// any existing line untouched.
func upsertOrderItem(ctx context.Context, r repository.TxRepos, orderID uint, input OrderItemInput) error {
	if input.Quantity <= 0 {
		return nil
	}

	existing, err := r.OrderItems().GetByOrderAndFood(ctx, orderID, input.FoodItemID)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Quantity += input.Quantity
		if input.SpecialInstructions != "" {
			existing.SpecialInstructions = input.SpecialInstructions
		}
		existing.Recalculate()
		return r.OrderItems().Update(ctx, existing)
	}

	var unitPrice float64
	if input.UnitPrice != nil {
		unitPrice = *input.UnitPrice
	} else {
		food, err := r.Catalog().GetFoodItem(ctx, input.FoodItemID)
		if err != nil {
			return err
		}
		if food == nil {
			return apperror.NewNotFoundError(fmt.Sprintf("Food item %d", input.FoodItemID))
		}
		unitPrice = food.Price
	}

	item := &entity.OrderItem{
		OrderID:             orderID,
		FoodItemID:          input.FoodItemID,
		Quantity:            input.Quantity,
		UnitPrice:           unitPrice,
		SpecialInstructions: input.SpecialInstructions,
	}
	item.Recalculate()
	return r.OrderItems().Create(ctx, item)
}

// recalculateOrderTotal stores sum(order items) + sum(tickets x package price)
func recalculateOrderTotal(ctx context.Context, r repository.TxRepos, orderID uint) (float64, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return 0, err
	}
	entries, err := r.Tickets().ListByOrderID(ctx, orderID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, item := range items {
		total += item.TotalPrice
	}

	if len(entries) > 0 {
		prices, err := packagePrices(ctx, r.Catalog(), entries)
		if err != nil {
			return 0, err
		}
		for _, entry := range entries {
			total += float64(entry.Quantity) * prices[entry.BuffetPackageID]
		}
	}

	if err := r.Orders().UpdateTotal(ctx, orderID, total); err != nil {
		return 0, err
	}
	return total, nil
}

func packagePrices(ctx context.Context, catalog repository.CatalogRepository, entries []entity.TicketLedgerEntry) (map[uint]float64, error) {
	seen := make(map[uint]bool)
	var ids []uint
	for _, entry := range entries {
		if !seen[entry.BuffetPackageID] {
			seen[entry.BuffetPackageID] = true
			ids = append(ids, entry.BuffetPackageID)
		}
	}

	pkgs, err := catalog.GetBuffetPackagesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	prices := make(map[uint]float64, len(pkgs))
	for _, pkg := range pkgs {
		prices[pkg.ID] = pkg.Price
	}
	return prices, nil
}

func hasPositiveQuantity(items []OrderItemInput) bool {
	for _, item := range items {
		if item.Quantity > 0 {
			return true
		}
	}
	return false
}

// KitchenTicket is the message published to the kitchen for an order
type KitchenTicket struct {
	Event       string              `json:"event"`
	OrderID     uint                `json:"order_id"`
	OrderNumber string              `json:"order_number"`
	TableID     uint                `json:"table_id"`
	Status      enum.OrderStatus    `json:"status"`
	Tickets     int                 `json:"tickets"`
	Items       []KitchenTicketLine `json:"items"`
	Notes       string              `json:"notes,omitempty"`
	SentAt      time.Time           `json:"sent_at"`
}

// KitchenTicketLine is one dish on a kitchen ticket
type KitchenTicketLine struct {
	FoodItemID          uint   `json:"food_item_id"`
	Name                string `json:"name"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

func newKitchenTicket(order *entity.Order, event string, now time.Time) KitchenTicket {
	ticket := KitchenTicket{
		Event:       event,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TableID:     order.TableID,
		Status:      order.Status,
		Notes:       order.Notes,
		Items:       make([]KitchenTicketLine, 0, len(order.Items)),
		SentAt:      now,
	}
	for _, entry := range order.Tickets {
		ticket.Tickets += entry.Quantity
	}
	for _, item := range order.Items {
		line := KitchenTicketLine{
			FoodItemID:          item.FoodItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		}
		if item.FoodItem != nil {
			line.Name = item.FoodItem.Name
		}
		ticket.Items = append(ticket.Items, line)
	}
	return ticket
}

// notifyKitchen publishes the order to the kitchen. Failures are logged and
// never fail the request.
func (s *OrderService) notifyKitchen(ctx context.Context, order *entity.Order, event string) {
	if order == nil {
		return
	}
	body, err := json.Marshal(newKitchenTicket(order, event, s.now()))
	if err != nil {
		log.Printf("Failed to encode kitchen ticket for order %d: %v", order.ID, err)
		return
	}
	routingKey := "kitchen." + order.Status.String()
	if err := s.publisher.Publish(ctx, routingKey, body); err != nil {
		log.Printf("Failed to publish kitchen ticket for order %d: %v", order.ID, err)
	}
}
