package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/lotus-pos/internal/presentation/http/middleware"
	"github.com/sangkips/lotus-pos/pkg/pagination"
)

// GetEmployeeID extracts the authenticated employee ID from the Gin context
func GetEmployeeID(c *gin.Context) *uint {
	id := middleware.GetEmployeeID(c)
	if id == 0 {
		return nil
	}
	return &id
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func pageParams(page, perPage int) *pagination.PaginationParams {
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}

// parseDate parses YYYY-MM-DD. endOfDay moves the result to the last
// instant of that day.
func parseDate(value string, endOfDay bool) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}
