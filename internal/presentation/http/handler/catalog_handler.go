package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/lotus-pos/internal/application/service"
	"github.com/sangkips/lotus-pos/internal/presentation/http/dto/response"
)

// CatalogHandler serves the menu, buffet packages and floor plan
type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListFoodItems handles GET /menu. ?available=true hides sold out dishes.
func (h *CatalogHandler) ListFoodItems(c *gin.Context) {
	items, err := h.catalogService.ListFoodItems(c.Request.Context(), c.Query("available") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu retrieved successfully", items)
}

func (h *CatalogHandler) ListBuffetPackages(c *gin.Context) {
	packages, err := h.catalogService.ListBuffetPackages(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Buffet packages retrieved successfully", packages)
}

func (h *CatalogHandler) ListTables(c *gin.Context) {
	tables, err := h.catalogService.ListTables(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tables retrieved successfully", tables)
}
