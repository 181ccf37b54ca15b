package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"paneteria_admin/internal/models"
	"paneteria_admin/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CatalogHandler serves category and product administration. Lists read from
// the store snapshot; mutations go through the store service.
type CatalogHandler struct {
	store services.StoreService
}

func NewCatalogHandler(store services.StoreService) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// -- Categories --

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	snapshot := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"categories":   snapshot.Categories,
		"refreshed_at": snapshot.RefreshedAt,
	})
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}

	if err := h.store.AddCategory(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	current := h.store.Snapshot().CategoryByID(id)
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	category := &models.Category{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    current.IsActive,
		CreatedAt:   current.CreatedAt,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := h.store.UpdateCategory(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.store.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrCategoryHasProducts) {
			c.JSON(http.StatusConflict, gin.H{"error": "Category still has products"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// -- Products --

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	snapshot := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"products":     snapshot.Products,
		"refreshed_at": snapshot.RefreshedAt,
	})
}

type productRequest struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	CategoryID      uint            `json:"category_id" binding:"required"`
	Price           decimal.Decimal `json:"price"`
	Weight          string          `json:"weight"`
	ImageURL        string          `json:"image_url"`
	CustomPackaging bool            `json:"custom_packaging"`
	IsActive        *bool           `json:"is_active"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if h.store.Snapshot().CategoryByID(req.CategoryID) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	product := &models.Product{
		Name:            req.Name,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		Price:           req.Price,
		Weight:          req.Weight,
		ImageURL:        req.ImageURL,
		CustomPackaging: req.CustomPackaging,
		IsActive:        req.IsActive == nil || *req.IsActive,
	}

	if err := h.store.AddProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	current := h.store.Snapshot().ProductByID(id)
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if h.store.Snapshot().CategoryByID(req.CategoryID) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	product := &models.Product{
		ID:              id,
		Name:            req.Name,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		Price:           req.Price,
		Weight:          req.Weight,
		ImageURL:        req.ImageURL,
		CustomPackaging: req.CustomPackaging,
		IsActive:        current.IsActive,
		CreatedAt:       current.CreatedAt,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.store.UpdateProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.store.DeleteProduct(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, err
	}
	return uint(id), nil
}
