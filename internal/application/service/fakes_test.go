package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sangkips/lotus-pos/internal/domain/entity"
	"github.com/sangkips/lotus-pos/internal/domain/enum"
	"github.com/sangkips/lotus-pos/internal/domain/repository"
	"github.com/stretchr/testify/mock"
)

// memStore is an in-memory stand-in for the database shared by the fakes below
type memStore struct {
	nextID       uint
	orders       map[uint]*entity.Order
	orderItems   map[uint]*entity.OrderItem
	tickets      []entity.TicketLedgerEntry
	invoices     map[uint]*entity.Invoice
	invoiceItems []entity.InvoiceItem
	foods        map[uint]entity.FoodItem
	packages     map[uint]entity.BuffetPackage
	tables       map[uint]*entity.RestaurantTable
	customers    map[uint]entity.Customer
	employees    map[uint]entity.Employee

	// orderLookupErr is returned by every order lookup when set
	orderLookupErr error
}

func newMemStore() *memStore {
	s := &memStore{
		nextID:     1000,
		orders:     map[uint]*entity.Order{},
		orderItems: map[uint]*entity.OrderItem{},
		invoices:   map[uint]*entity.Invoice{},
		foods:      map[uint]entity.FoodItem{},
		packages:   map[uint]entity.BuffetPackage{},
		tables:     map[uint]*entity.RestaurantTable{},
		customers:  map[uint]entity.Customer{},
		employees:  map[uint]entity.Employee{},
	}
	s.packages[1] = entity.BuffetPackage{ID: 1, Name: "Buffet Standard", Price: 199000, Active: true}
	s.packages[2] = entity.BuffetPackage{ID: 2, Name: "Buffet Premium", Price: 299000, Active: true}
	s.packages[3] = entity.BuffetPackage{ID: 3, Name: "Buffet Kids", Price: 99000, Active: true}
	s.foods[10] = entity.FoodItem{ID: 10, Name: "Grilled Prawns", Price: 50000, Available: true}
	s.foods[11] = entity.FoodItem{ID: 11, Name: "Herbal Tea", Price: 30000, Available: true}
	s.foods[12] = entity.FoodItem{ID: 12, Name: "Seasonal Soup", Price: 40000, Available: false}
	s.tables[3] = &entity.RestaurantTable{ID: 3, Name: "T3", Capacity: 4, Status: enum.TableStatusAvailable}
	s.employees[7] = entity.Employee{ID: 7, FullName: "Mai Tran", Role: "cashier", Active: true}
	return s
}

func (s *memStore) newID() uint {
	s.nextID++
	return s.nextID
}

// orderFixture is an order on table 3 taken by employee 7
func orderFixture(n int, status enum.OrderStatus) entity.Order {
	employeeID := uint(7)
	return entity.Order{
		OrderNumber: fmt.Sprintf("ORD-%d", n),
		TableID:     3,
		EmployeeID:  &employeeID,
		Status:      status,
	}
}

// addOrder stores o as is, keeping a preset ID
func (s *memStore) addOrder(o entity.Order) *entity.Order {
	if o.ID == 0 {
		o.ID = s.newID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	s.orders[o.ID] = &o
	return &o
}

func (s *memStore) addOrderItem(item entity.OrderItem) {
	item.ID = s.newID()
	item.Recalculate()
	s.orderItems[item.ID] = &item
}

func (s *memStore) addTickets(orderID, packageID uint, quantities ...int) {
	for _, q := range quantities {
		s.tickets = append(s.tickets, entity.TicketLedgerEntry{ID: s.newID(), OrderID: orderID, BuffetPackageID: packageID, Quantity: q})
	}
}

func (s *memStore) itemsFor(orderID uint) []entity.OrderItem {
	var items []entity.OrderItem
	for _, item := range s.orderItems {
		if item.OrderID == orderID {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (s *memStore) ticketsFor(orderID uint) []entity.TicketLedgerEntry {
	var entries []entity.TicketLedgerEntry
	for _, entry := range s.tickets {
		if entry.OrderID == orderID {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (s *memStore) invoiceItemsFor(invoiceID uint) []entity.InvoiceItem {
	var items []entity.InvoiceItem
	for _, item := range s.invoiceItems {
		if item.InvoiceID == invoiceID {
			items = append(items, item)
		}
	}
	return items
}

func (s *memStore) txManager() *fakeTxManager {
	return &fakeTxManager{s: s}
}

// --- orders ---

type fakeOrderRepo struct{ s *memStore }

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	order.ID = r.s.newID()
	order.CreatedAt = time.Now()
	cp := *order
	r.s.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uint) (*entity.Order, error) {
	if r.s.orderLookupErr != nil {
		return nil, r.s.orderLookupErr
	}
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	if r.s.orderLookupErr != nil {
		return nil, r.s.orderLookupErr
	}
	for _, o := range r.s.orders {
		if o.OrderNumber == orderNumber {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindRecentByEmployee(ctx context.Context, employeeID uint, statuses []enum.OrderStatus, since, until time.Time) (*entity.Order, error) {
	if r.s.orderLookupErr != nil {
		return nil, r.s.orderLookupErr
	}
	var best *entity.Order
	for _, o := range r.s.orders {
		if o.EmployeeID == nil || *o.EmployeeID != employeeID {
			continue
		}
		if o.CreatedAt.Before(since) || o.CreatedAt.After(until) {
			continue
		}
		eligible := false
		for _, st := range statuses {
			if o.Status == st {
				eligible = true
			}
		}
		if !eligible {
			continue
		}
		if best == nil || o.CreatedAt.After(best.CreatedAt) {
			best = o
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (r *fakeOrderRepo) GetWithDetails(ctx context.Context, id uint) (*entity.Order, error) {
	o, err := r.GetByID(ctx, id)
	if err != nil || o == nil {
		return o, err
	}
	if t, ok := r.s.tables[o.TableID]; ok {
		cp := *t
		o.Table = &cp
	}
	if o.BuffetPackageID != nil {
		if pkg, ok := r.s.packages[*o.BuffetPackageID]; ok {
			o.BuffetPackage = &pkg
		}
	}
	o.Items = r.s.itemsFor(id)
	for i := range o.Items {
		if food, ok := r.s.foods[o.Items[i].FoodItemID]; ok {
			o.Items[i].FoodItem = &food
		}
	}
	o.Tickets = r.s.ticketsFor(id)
	for i := range o.Tickets {
		if pkg, ok := r.s.packages[o.Tickets[i].BuffetPackageID]; ok {
			o.Tickets[i].BuffetPackage = &pkg
		}
	}
	return o, nil
}

func (r *fakeOrderRepo) GetByIDForUpdate(ctx context.Context, id uint) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeOrderRepo) UpdateDetails(ctx context.Context, order *entity.Order) error {
	o, ok := r.s.orders[order.ID]
	if !ok {
		return nil
	}
	o.BuffetPackageID = order.BuffetPackageID
	o.BuffetQuantity = order.BuffetQuantity
	o.Notes = order.Notes
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uint, status enum.OrderStatus) error {
	if o, ok := r.s.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (r *fakeOrderRepo) UpdateTotal(ctx context.Context, id uint, total float64) error {
	if o, ok := r.s.orders[id]; ok {
		o.TotalAmount = total
	}
	return nil
}

func (r *fakeOrderRepo) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	for _, o := range r.s.orders {
		if params.Status != nil && o.Status != *params.Status {
			continue
		}
		orders = append(orders, *o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, int64(len(orders)), nil
}

// --- order items ---

type fakeOrderItemRepo struct{ s *memStore }

func (r *fakeOrderItemRepo) GetByOrderAndFood(ctx context.Context, orderID, foodItemID uint) (*entity.OrderItem, error) {
	for _, item := range r.s.orderItems {
		if item.OrderID == orderID && item.FoodItemID == foodItemID {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderItemRepo) Create(ctx context.Context, item *entity.OrderItem) error {
	item.ID = r.s.newID()
	cp := *item
	r.s.orderItems[item.ID] = &cp
	return nil
}

func (r *fakeOrderItemRepo) Update(ctx context.Context, item *entity.OrderItem) error {
	cp := *item
	r.s.orderItems[item.ID] = &cp
	return nil
}

func (r *fakeOrderItemRepo) Delete(ctx context.Context, id uint) error {
	delete(r.s.orderItems, id)
	return nil
}

func (r *fakeOrderItemRepo) ListByOrderID(ctx context.Context, orderID uint) ([]entity.OrderItem, error) {
	return r.s.itemsFor(orderID), nil
}

// --- ticket ledger ---

type fakeTicketRepo struct{ s *memStore }

func (r *fakeTicketRepo) Append(ctx context.Context, entry *entity.TicketLedgerEntry) error {
	entry.ID = r.s.newID()
	r.s.tickets = append(r.s.tickets, *entry)
	return nil
}

func (r *fakeTicketRepo) ListByOrderID(ctx context.Context, orderID uint) ([]entity.TicketLedgerEntry, error) {
	return r.s.ticketsFor(orderID), nil
}

// --- invoices ---

type fakeInvoiceRepo struct{ s *memStore }

func (r *fakeInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	invoice.ID = r.s.newID()
	invoice.CreatedAt = time.Now()
	cp := *invoice
	r.s.invoices[invoice.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) GetByID(ctx context.Context, id uint) (*entity.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	if cp.EmployeeID != nil {
		if emp, ok := r.s.employees[*cp.EmployeeID]; ok {
			cp.Employee = &emp
		}
	}
	return &cp, nil
}

func (r *fakeInvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	cp := *invoice
	r.s.invoices[invoice.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	for _, inv := range r.s.invoices {
		invoices = append(invoices, *inv)
	}
	return invoices, int64(len(invoices)), nil
}

type fakeInvoiceItemRepo struct{ s *memStore }

// CreateBatch fills TotalPrice the way the generated column does
func (r *fakeInvoiceItemRepo) CreateBatch(ctx context.Context, items []entity.InvoiceItem) error {
	for i := range items {
		items[i].ID = r.s.newID()
		stored := items[i]
		stored.TotalPrice = stored.LineTotal()
		r.s.invoiceItems = append(r.s.invoiceItems, stored)
	}
	return nil
}

func (r *fakeInvoiceItemRepo) ListByInvoiceID(ctx context.Context, invoiceID uint) ([]entity.InvoiceItem, error) {
	return r.s.invoiceItemsFor(invoiceID), nil
}

func (r *fakeInvoiceItemRepo) DeleteByInvoiceID(ctx context.Context, invoiceID uint) error {
	kept := r.s.invoiceItems[:0]
	for _, item := range r.s.invoiceItems {
		if item.InvoiceID != invoiceID {
			kept = append(kept, item)
		}
	}
	r.s.invoiceItems = kept
	return nil
}

// --- catalog and people ---

type fakeCatalogRepo struct{ s *memStore }

func (r *fakeCatalogRepo) GetFoodItem(ctx context.Context, id uint) (*entity.FoodItem, error) {
	food, ok := r.s.foods[id]
	if !ok {
		return nil, nil
	}
	return &food, nil
}

func (r *fakeCatalogRepo) GetFoodItemsByIDs(ctx context.Context, ids []uint) ([]entity.FoodItem, error) {
	var foods []entity.FoodItem
	for _, id := range ids {
		if food, ok := r.s.foods[id]; ok {
			foods = append(foods, food)
		}
	}
	return foods, nil
}

func (r *fakeCatalogRepo) ListFoodItems(ctx context.Context, onlyAvailable bool) ([]entity.FoodItem, error) {
	var foods []entity.FoodItem
	for _, food := range r.s.foods {
		if onlyAvailable && !food.Available {
			continue
		}
		foods = append(foods, food)
	}
	return foods, nil
}

func (r *fakeCatalogRepo) GetBuffetPackage(ctx context.Context, id uint) (*entity.BuffetPackage, error) {
	pkg, ok := r.s.packages[id]
	if !ok {
		return nil, nil
	}
	return &pkg, nil
}

func (r *fakeCatalogRepo) GetBuffetPackagesByIDs(ctx context.Context, ids []uint) ([]entity.BuffetPackage, error) {
	var pkgs []entity.BuffetPackage
	for _, id := range ids {
		if pkg, ok := r.s.packages[id]; ok {
			pkgs = append(pkgs, pkg)
		}
	}
	return pkgs, nil
}

func (r *fakeCatalogRepo) ListBuffetPackages(ctx context.Context, onlyActive bool) ([]entity.BuffetPackage, error) {
	var pkgs []entity.BuffetPackage
	for _, pkg := range r.s.packages {
		if onlyActive && !pkg.Active {
			continue
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

type fakeTableRepo struct{ s *memStore }

func (r *fakeTableRepo) GetByID(ctx context.Context, id uint) (*entity.RestaurantTable, error) {
	t, ok := r.s.tables[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTableRepo) List(ctx context.Context) ([]entity.RestaurantTable, error) {
	var tables []entity.RestaurantTable
	for _, t := range r.s.tables {
		tables = append(tables, *t)
	}
	return tables, nil
}

func (r *fakeTableRepo) UpdateStatus(ctx context.Context, id uint, status enum.TableStatus) error {
	if t, ok := r.s.tables[id]; ok {
		t.Status = status
	}
	return nil
}

type fakeCustomerRepo struct{ s *memStore }

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uint) (*entity.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type fakeEmployeeRepo struct{ s *memStore }

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id uint) (*entity.Employee, error) {
	e, ok := r.s.employees[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// --- transactions ---

type fakeTxRepos struct{ s *memStore }

func (r *fakeTxRepos) Orders() repository.OrderRepository             { return &fakeOrderRepo{r.s} }
func (r *fakeTxRepos) OrderItems() repository.OrderItemRepository     { return &fakeOrderItemRepo{r.s} }
func (r *fakeTxRepos) Tickets() repository.TicketLedgerRepository     { return &fakeTicketRepo{r.s} }
func (r *fakeTxRepos) Invoices() repository.InvoiceRepository         { return &fakeInvoiceRepo{r.s} }
func (r *fakeTxRepos) InvoiceItems() repository.InvoiceItemRepository { return &fakeInvoiceItemRepo{r.s} }
func (r *fakeTxRepos) Tables() repository.TableRepository             { return &fakeTableRepo{r.s} }
func (r *fakeTxRepos) Catalog() repository.CatalogRepository           { return &fakeCatalogRepo{r.s} }

// fakeTxManager runs fn directly; the fakes have no rollback
type fakeTxManager struct {
	s     *memStore
	calls int
	// beforeTx runs ahead of every transaction, standing in for a concurrent writer
	beforeTx func()
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	m.calls++
	if m.beforeTx != nil {
		m.beforeTx()
	}
	return fn(&fakeTxRepos{s: m.s})
}

// --- broker ---

type publisherMock struct{ mock.Mock }

func (m *publisherMock) Publish(ctx context.Context, routingKey string, body []byte) error {
	args := m.Called(ctx, routingKey, body)
	return args.Error(0)
}

func (m *publisherMock) Close() error      { return nil }
func (m *publisherMock) IsConnected() bool { return true }
