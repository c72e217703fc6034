package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefixes for generated order and invoice numbers
const (
	BuffetOrderPrefix = "BUF"
	OrderPrefix       = "ORD"
	InvoicePrefix     = "INV"
)

// GenerateOrderNumber returns BUF-<epoch_ms> for buffet orders and
// ORD-<epoch_ms> otherwise.
func GenerateOrderNumber(buffet bool, now time.Time) string {
	prefix := OrderPrefix
	if buffet {
		prefix = BuffetOrderPrefix
	}
	return GenerateReferenceNo(prefix, now)
}

// GenerateInvoiceNumber returns INV-<epoch_ms>-<8 hex>. Two payments in the
// same millisecond still get distinct numbers.
func GenerateInvoiceNumber(now time.Time) string {
	return GenerateReferenceNo(InvoicePrefix, now) + "-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateReferenceNo joins prefix and the millisecond timestamp
func GenerateReferenceNo(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%d", prefix, now.UnixMilli())
}
