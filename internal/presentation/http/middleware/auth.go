package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/lotus-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/lotus-pos/pkg/utils"
)

// Context keys set by AuthMiddleware
const (
	ContextEmployeeID    = "employee_id"
	ContextEmployeeName  = "employee_name"
	ContextEmployeeRoles = "employee_roles"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ContextEmployeeID, claims.EmployeeID)
		c.Set(ContextEmployeeName, claims.Name)
		c.Set(ContextEmployeeRoles, claims.Roles)

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextEmployeeRoles)
		if !exists {
			response.Forbidden(c, "Access denied")
			return
		}

		employeeRoles, ok := value.([]string)
		if !ok {
			response.Forbidden(c, "Access denied")
			return
		}

		for _, have := range employeeRoles {
			for _, want := range roles {
				if have == want {
					c.Next()
					return
				}
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
	}
}

// GetEmployeeID returns the authenticated employee id, or 0
func GetEmployeeID(c *gin.Context) uint {
	value, exists := c.Get(ContextEmployeeID)
	if !exists {
		return 0
	}
	id, _ := value.(uint)
	return id
}
