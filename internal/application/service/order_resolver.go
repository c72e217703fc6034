package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"github.com/sangkips/lotus-pos/internal/domain/entity"
	"github.com/sangkips/lotus-pos/internal/domain/enum"
	"github.com/sangkips/lotus-pos/internal/domain/repository"
	"github.com/sangkips/lotus-pos/internal/infrastructure/database"
	"github.com/sangkips/lotus-pos/pkg/utils"
)

var (
	notesOrderIDPattern     = regexp.MustCompile(`(?i)order[:#-]?\s*(\d+)`)
	notesBuffetRefPattern   = regexp.MustCompile(`BUF-(\d+)`)
	notesBuffetOrderPattern = regexp.MustCompile(`Buffet Order:\s*BUF-(\d+)`)
)

// NoteReferences holds the order references found in free-text invoice notes
type NoteReferences struct {
	OrderID        *uint  // "Order: 55", "order#55", "ORDER-55"
	BuffetRef      string // first "BUF-<n>" anywhere in the notes
	BuffetOrderRef string // "Buffet Order: BUF-<n>"
}

// ParseNoteReferences extracts order references from invoice notes
func ParseNoteReferences(notes string) NoteReferences {
	var refs NoteReferences
	if notes == "" {
		return refs
	}

	if m := notesOrderIDPattern.FindStringSubmatch(notes); m != nil {
		if n, err := strconv.ParseUint(m[1], 10, 64); err == nil && n > 0 {
			id := uint(n)
			refs.OrderID = &id
		}
	}
	if m := notesBuffetRefPattern.FindStringSubmatch(notes); m != nil {
		refs.BuffetRef = utils.BuffetOrderPrefix + "-" + m[1]
	}
	if m := notesBuffetOrderPattern.FindStringSubmatch(notes); m != nil {
		refs.BuffetOrderRef = utils.BuffetOrderPrefix + "-" + m[1]
	}
	return refs
}

// ResolveHints are the caller-supplied references to the order being paid
type ResolveHints struct {
	OrderID     *uint
	OrderNumber string
	// At anchors the recency window. Zero means the resolver's clock.
	At time.Time
}

// Resolution is the outcome of OrderResolver.Resolve
type Resolution struct {
	Order          *entity.Order
	Reconciliation entity.Reconciliation
}

// OrderResolver finds the order an invoice was paid for. Strategies run in a
// fixed order and the first hit wins.
type OrderResolver struct {
	orders repository.OrderRepository
	window time.Duration
	now    func() time.Time
}

// NewOrderResolver creates a resolver whose recency fallback looks back window
func NewOrderResolver(orders repository.OrderRepository, window time.Duration) *OrderResolver {
	return &OrderResolver{
		orders: orders,
		window: window,
		now:    time.Now,
	}
}

// WithOrders returns a copy of the resolver reading through orders, typically
// a transaction-bound repository.
func (r *OrderResolver) WithOrders(orders repository.OrderRepository) *OrderResolver {
	cp := *r
	cp.orders = orders
	return &cp
}

// WithClock returns a copy of the resolver using now as its clock
func (r *OrderResolver) WithClock(now func() time.Time) *OrderResolver {
	cp := *r
	cp.now = now
	return &cp
}

type lookupStep struct {
	strategy entity.MatchStrategy
	lookup   func() (*entity.Order, error)
}

// Resolve runs the matching cascade for invoice. Lookups that find nothing
// move on to the next strategy, and so do transient database errors. Schema
// or integrity errors and cancelled contexts stop the cascade.
func (r *OrderResolver) Resolve(ctx context.Context, invoice *entity.Invoice, hints ResolveHints) Resolution {
	steps := r.buildSteps(ctx, invoice, hints)

	for _, step := range steps {
		order, err := step.lookup()
		if err != nil {
			if database.IsStructuralError(err) {
				log.Printf("Reconcile %s: %s lookup rejected: %v", invoice.InvoiceNumber, step.strategy, err)
				return unresolved(fmt.Sprintf("%s lookup rejected: %v", step.strategy, err))
			}
			log.Printf("Reconcile %s: %s lookup failed, trying next strategy: %v", invoice.InvoiceNumber, step.strategy, err)
			continue
		}
		if order == nil {
			log.Printf("Reconcile %s: %s found no order", invoice.InvoiceNumber, step.strategy)
			continue
		}
		if order.Status == enum.OrderStatusCancelled {
			log.Printf("Reconcile %s: %s matched cancelled order %d, skipping", invoice.InvoiceNumber, step.strategy, order.ID)
			continue
		}

		log.Printf("Reconcile %s: matched order %d (%s) by %s", invoice.InvoiceNumber, order.ID, order.OrderNumber, step.strategy)
		orderID := order.ID
		return Resolution{
			Order: order,
			Reconciliation: entity.Reconciliation{
				Status:   entity.ReconcileResolved,
				Strategy: step.strategy,
				OrderID:  &orderID,
			},
		}
	}

	log.Printf("Reconcile %s: no order matched after %d strategies", invoice.InvoiceNumber, len(steps))
	return unresolved("no order matched")
}

func (r *OrderResolver) buildSteps(ctx context.Context, invoice *entity.Invoice, hints ResolveHints) []lookupStep {
	var steps []lookupStep
	byID := func(id uint) func() (*entity.Order, error) {
		return func() (*entity.Order, error) { return r.orders.GetByID(ctx, id) }
	}
	byNumber := func(number string) func() (*entity.Order, error) {
		return func() (*entity.Order, error) { return r.orders.GetByOrderNumber(ctx, number) }
	}

	// The explicit hint and the stored link usually agree; report the hint then.
	if invoice.OrderID != nil && (hints.OrderID == nil || *hints.OrderID != *invoice.OrderID) {
		steps = append(steps, lookupStep{entity.MatchInvoiceOrderID, byID(*invoice.OrderID)})
	}
	if hints.OrderID != nil {
		steps = append(steps, lookupStep{entity.MatchExplicitOrderID, byID(*hints.OrderID)})
	}
	if hints.OrderNumber != "" {
		steps = append(steps, lookupStep{entity.MatchOrderNumber, byNumber(hints.OrderNumber)})
	}

	refs := ParseNoteReferences(invoice.Notes)
	if refs.OrderID != nil {
		steps = append(steps, lookupStep{entity.MatchNotesOrderID, byID(*refs.OrderID)})
	}
	if refs.BuffetRef != "" {
		steps = append(steps, lookupStep{entity.MatchNotesBuffetRef, byNumber(refs.BuffetRef)})
	}
	if invoice.InvoiceNumber != "" {
		steps = append(steps, lookupStep{entity.MatchInvoiceNumber, byNumber(invoice.InvoiceNumber)})
	}
	if refs.BuffetOrderRef != "" {
		steps = append(steps, lookupStep{entity.MatchNotesBuffetOrder, byNumber(refs.BuffetOrderRef)})
	}

	if invoice.EmployeeID != nil && r.window > 0 {
		employeeID := *invoice.EmployeeID
		until := hints.At
		if until.IsZero() {
			until = r.now()
		}
		since := until.Add(-r.window)
		steps = append(steps, lookupStep{entity.MatchRecentByEmployee, func() (*entity.Order, error) {
			return r.orders.FindRecentByEmployee(ctx, employeeID, enum.RecentMatchStatuses(), since, until)
		}})
	}

	return steps
}

func unresolved(reason string) Resolution {
	return Resolution{
		Reconciliation: entity.Reconciliation{
			Status: entity.ReconcileUnresolved,
			Reason: reason,
		},
	}
}
