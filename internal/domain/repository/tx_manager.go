package repository

import "context"

// TxRepos exposes repositories bound to a single transaction
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Tickets() TicketLedgerRepository
	Invoices() InvoiceRepository
	InvoiceItems() InvoiceItemRepository
	Tables() TableRepository
	Catalog() CatalogRepository
}

// TransactionManager hides begin/commit/rollback from the services.
// Returning an error from fn rolls the transaction back.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
