package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voltkart/storefront-api/internal/dto"
	"github.com/voltkart/storefront-api/internal/model"
	"github.com/voltkart/storefront-api/internal/service"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) Popular(c *gin.Context) {
	products, err := h.catalogService.Popular(c.Request.Context(), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

func (h *CatalogHandler) ByCategory(c *gin.Context) {
	products, err := h.catalogService.ByCategory(c.Request.Context(), c.Query("category"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCategoryName):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category is required"})
		case errors.Is(err, service.ErrNoCategoryProducts):
			c.JSON(http.StatusNotFound, gin.H{"error": "No Products found for this category"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

func (h *CatalogHandler) WeeklyDeals(c *gin.Context) {
	products, err := h.catalogService.WeeklyDeals(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoWeeklyDeals) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No weekly deals found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

func (h *CatalogHandler) Search(c *gin.Context) {
	products, err := h.catalogService.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

func (h *CatalogHandler) Filters(c *gin.Context) {
	resp, err := h.catalogService.Facets(c.Request.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		if errors.Is(err, service.ErrMissingFilterQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category or Search query is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) FiltersCategoryName(c *gin.Context) {
	name, err := h.catalogService.CategoryName(c.Request.Context(), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	resp := dto.CategoryNameResponse{}
	if name != "" {
		resp.CategoryName = &name
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	resp, err := h.catalogService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) Variants(c *gin.Context) {
	products, err := h.catalogService.Variants(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

func (h *CatalogHandler) Similar(c *gin.Context) {
	excludeID, err := strconv.ParseInt(c.Query("excludeId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid excludeId"})
		return
	}

	products, err := h.catalogService.Similar(c.Request.Context(), c.Query("category"), excludeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

func toProductResponses(products []model.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, service.ToProductResponse(&products[i]))
	}
	return items
}
