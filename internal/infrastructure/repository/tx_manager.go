package repository

import (
	"context"

	domainRepo "github.com/sangkips/lotus-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type txRepos struct {
	orders       domainRepo.OrderRepository
	orderItems   domainRepo.OrderItemRepository
	tickets      domainRepo.TicketLedgerRepository
	invoices     domainRepo.InvoiceRepository
	invoiceItems domainRepo.InvoiceItemRepository
	tables       domainRepo.TableRepository
	catalog      domainRepo.CatalogRepository
}

func (r *txRepos) Orders() domainRepo.OrderRepository             { return r.orders }
func (r *txRepos) OrderItems() domainRepo.OrderItemRepository     { return r.orderItems }
func (r *txRepos) Tickets() domainRepo.TicketLedgerRepository     { return r.tickets }
func (r *txRepos) Invoices() domainRepo.InvoiceRepository         { return r.invoices }
func (r *txRepos) InvoiceItems() domainRepo.InvoiceItemRepository { return r.invoiceItems }
func (r *txRepos) Tables() domainRepo.TableRepository             { return r.tables }
func (r *txRepos) Catalog() domainRepo.CatalogRepository           { return r.catalog }

type txManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a transaction manager backed by gorm
func NewTransactionManager(db *gorm.DB) domainRepo.TransactionManager {
	return &txManager{db: db}
}

func (tm *txManager) WithinTx(ctx context.Context, fn func(r domainRepo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// repositories are rebuilt on top of the transaction handle
		r := &txRepos{
			orders:       NewOrderRepository(tx),
			orderItems:   NewOrderItemRepository(tx),
			tickets:      NewTicketLedgerRepository(tx),
			invoices:     NewInvoiceRepository(tx),
			invoiceItems: NewInvoiceItemRepository(tx),
			tables:       NewTableRepository(tx),
			catalog:      NewCatalogRepository(tx),
		}
		return fn(r)
	})
}
