package entity

// ReconcileStatus is the outcome of matching an invoice to its order
type ReconcileStatus string

const (
	ReconcileResolved   ReconcileStatus = "resolved"
	ReconcileUnresolved ReconcileStatus = "unresolved"
	// ReconcileSkipped means the invoice already had enough lines and no
	// order lookup was attempted.
	ReconcileSkipped ReconcileStatus = "skipped"
)

// MatchStrategy names the rule that linked an invoice to an order
type MatchStrategy string

const (
	MatchInvoiceOrderID   MatchStrategy = "invoice_order_id"
	MatchExplicitOrderID  MatchStrategy = "explicit_order_id"
	MatchOrderNumber      MatchStrategy = "order_number"
	MatchNotesOrderID     MatchStrategy = "notes_order_id"
	MatchNotesBuffetRef   MatchStrategy = "notes_buffet_ref"
	MatchInvoiceNumber    MatchStrategy = "invoice_number"
	MatchNotesBuffetOrder MatchStrategy = "notes_buffet_order"
	MatchRecentByEmployee MatchStrategy = "recent_by_employee"
)

// Reconciliation reports how (and whether) an invoice was linked to an order
type Reconciliation struct {
	Status   ReconcileStatus `json:"status"`
	Strategy MatchStrategy   `json:"strategy,omitempty"`
	OrderID  *uint           `json:"order_id,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

// Resolved reports whether an order was found
func (r Reconciliation) Resolved() bool {
	return r.Status == ReconcileResolved
}
