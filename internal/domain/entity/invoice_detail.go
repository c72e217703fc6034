package entity

// LineKind tells whether a billed line is a dish or a buffet ticket
type LineKind string

const (
	LineKindFood   LineKind = "food"
	LineKindTicket LineKind = "ticket"
)

// DetailSource tells where the lines of an InvoiceDetail came from
type DetailSource string

const (
	DetailSourceInvoiceItems  DetailSource = "invoice_items"
	DetailSourceOrderFallback DetailSource = "order_fallback"
	DetailSourceNone          DetailSource = "none"
)

// InvoiceLine is a human-readable invoice line.
// It is NOT a database entity; it is composed from invoice/order data at read time.
type InvoiceLine struct {
	ServiceID    uint     `json:"service_id"`
	Name         string   `json:"name"`
	Kind         LineKind `json:"kind"`
	Quantity     int      `json:"quantity"`
	UnitPrice    float64  `json:"unit_price"`
	TotalPrice   float64  `json:"total_price"`
	EmployeeName string   `json:"employee_name,omitempty"`
}

// InvoiceDetail is an invoice together with its display lines
type InvoiceDetail struct {
	Invoice        *Invoice       `json:"invoice"`
	Items          []InvoiceLine  `json:"items"`
	EmployeeName   string         `json:"employee_name,omitempty"`
	Source         DetailSource   `json:"source"`
	Reconciliation Reconciliation `json:"reconciliation"`
}
