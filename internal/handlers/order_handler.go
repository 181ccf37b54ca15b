package handlers

import (
	"net/http"
	"time"

	"paneteria_admin/internal/models"
	"paneteria_admin/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	store services.StoreService
}

func NewOrderHandler(store services.StoreService) *OrderHandler {
	return &OrderHandler{store: store}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	snapshot := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"orders":       snapshot.Orders,
		"refreshed_at": snapshot.RefreshedAt,
	})
}

type orderItemRequest struct {
	ProductID    uint             `json:"product_id" binding:"required"`
	Quantity     int              `json:"quantity" binding:"required,gt=0"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	ItemDiscount decimal.Decimal  `json:"item_discount"`
}

type orderRequest struct {
	CustomerID        uint                 `json:"customer_id" binding:"required"`
	Items             []orderItemRequest   `json:"items" binding:"required,min=1"`
	DeliveryFee       decimal.Decimal      `json:"delivery_fee"`
	OrderDiscount     decimal.Decimal      `json:"order_discount"`
	Status            models.OrderStatus   `json:"status"`
	PaymentStatus     models.PaymentStatus `json:"payment_status"`
	PaymentMethod     string               `json:"payment_method"`
	DeliveryMethod    string               `json:"delivery_method"`
	SalesChannel      string               `json:"sales_channel"`
	Notes             string               `json:"notes"`
	OrderDate         *time.Time           `json:"order_date"`
	EstimatedDelivery *time.Time           `json:"estimated_delivery"`
	PaymentDate       *time.Time           `json:"payment_date"`
}

// buildOrder assembles the write payload. Line items record the product's
// current price when the request does not carry an explicit unit price.
func (h *OrderHandler) buildOrder(c *gin.Context, req *orderRequest) (*models.Order, bool) {
	snapshot := h.store.Snapshot()

	if snapshot.CustomerByID(req.CustomerID) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown customer"})
		return nil, false
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		unitPrice := decimal.Zero
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		} else {
			product := snapshot.ProductByID(item.ProductID)
			if product == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product"})
				return nil, false
			}
			unitPrice = product.Price
		}
		items = append(items, models.OrderItem{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPrice:    unitPrice,
			ItemDiscount: item.ItemDiscount,
		})
	}

	order := &models.Order{
		CustomerID:        req.CustomerID,
		Items:             items,
		DeliveryFee:       req.DeliveryFee,
		OrderDiscount:     req.OrderDiscount,
		Status:            req.Status,
		PaymentStatus:     req.PaymentStatus,
		PaymentMethod:     req.PaymentMethod,
		DeliveryMethod:    req.DeliveryMethod,
		SalesChannel:      req.SalesChannel,
		Notes:             req.Notes,
		EstimatedDelivery: req.EstimatedDelivery,
		PaymentDate:       req.PaymentDate,
	}
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	}
	return order, true
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, ok := h.buildOrder(c, &req)
	if !ok {
		return
	}

	if err := h.store.AddOrder(c.Request.Context(), order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	snapshot := h.store.Snapshot()
	var current *models.Order
	for i := range snapshot.Orders {
		if snapshot.Orders[i].ID == id {
			current = &snapshot.Orders[i]
			break
		}
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	order, ok := h.buildOrder(c, &req)
	if !ok {
		return
	}
	order.ID = id
	order.Number = current.Number
	order.CreatedAt = current.CreatedAt
	if req.OrderDate == nil {
		order.OrderDate = current.OrderDate
	}

	if err := h.store.UpdateOrder(c.Request.Context(), order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.store.DeleteOrder(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
