package handlers

import (
	"errors"
	"net/http"

	"paneteria_admin/internal/models"
	"paneteria_admin/internal/services"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	store services.StoreService
}

func NewCustomerHandler(store services.StoreService) *CustomerHandler {
	return &CustomerHandler{store: store}
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	snapshot := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"customers":    snapshot.Customers,
		"refreshed_at": snapshot.RefreshedAt,
	})
}

type customerRequest struct {
	Name                string `json:"name" binding:"required"`
	WhatsApp            string `json:"whatsapp" binding:"required"`
	Email               string `json:"email"`
	Address             string `json:"address"`
	Observations        string `json:"observations"`
	DeliveryPreferences string `json:"delivery_preferences"`
	IsGiftEligible      bool   `json:"is_gift_eligible"`
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	customer := &models.Customer{
		Name:                req.Name,
		WhatsApp:            req.WhatsApp,
		Email:               req.Email,
		Address:             req.Address,
		Observations:        req.Observations,
		DeliveryPreferences: req.DeliveryPreferences,
		IsGiftEligible:      req.IsGiftEligible,
	}

	if err := h.store.AddCustomer(c.Request.Context(), customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	current := h.store.Snapshot().CustomerByID(id)
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	customer := &models.Customer{
		ID:                  id,
		Name:                req.Name,
		WhatsApp:            req.WhatsApp,
		Email:               req.Email,
		Address:             req.Address,
		Observations:        req.Observations,
		DeliveryPreferences: req.DeliveryPreferences,
		IsGiftEligible:      req.IsGiftEligible,
		CreatedAt:           current.CreatedAt,
	}

	if err := h.store.UpdateCustomer(c.Request.Context(), customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.store.DeleteCustomer(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrCustomerHasOrders) {
			c.JSON(http.StatusConflict, gin.H{"error": "Customer has orders on record"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
