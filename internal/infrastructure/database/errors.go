package database

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsStructuralError reports whether err comes from the schema or from an
// integrity rule rather than from missing data. Retrying a different lookup
// will not fix these.
func IsStructuralError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23: integrity constraint violation, 42: syntax error or access rule violation
		return strings.HasPrefix(pgErr.Code, "23") || strings.HasPrefix(pgErr.Code, "42")
	}

	msg := err.Error()
	return strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
