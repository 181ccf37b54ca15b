package handlers

import (
	"net/http"
	"sort"

	"paneteria_admin/internal/models"
	"paneteria_admin/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DashboardHandler serves the analytics summary, the manual refresh
// affordance and the CSV exports.
type DashboardHandler struct {
	store  services.StoreService
	export services.ExportService
}

func NewDashboardHandler(store services.StoreService, export services.ExportService) *DashboardHandler {
	return &DashboardHandler{store: store, export: export}
}

type topProduct struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	TotalSold int    `json:"total_sold"`
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	snapshot := h.store.Snapshot()

	revenue := decimal.Zero
	pendingRevenue := decimal.Zero
	ordersByStatus := map[models.OrderStatus]int{}
	for _, order := range snapshot.Orders {
		ordersByStatus[order.Status]++
		if order.Status == models.OrderCancelled {
			continue
		}
		switch order.PaymentStatus {
		case models.PaymentPaid:
			revenue = revenue.Add(order.Total)
		case models.PaymentPending:
			pendingRevenue = pendingRevenue.Add(order.Total)
		}
	}

	top := make([]topProduct, 0, len(snapshot.Products))
	for _, product := range snapshot.Products {
		if product.TotalSold > 0 {
			top = append(top, topProduct{ID: product.ID, Name: product.Name, TotalSold: product.TotalSold})
		}
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].TotalSold > top[j].TotalSold })
	if len(top) > 5 {
		top = top[:5]
	}

	response := gin.H{
		"revenue":          revenue.StringFixed(2),
		"pending_revenue":  pendingRevenue.StringFixed(2),
		"orders_by_status": ordersByStatus,
		"total_customers":  len(snapshot.Customers),
		"total_products":   len(snapshot.Products),
		"top_products":     top,
		"refreshed_at":     snapshot.RefreshedAt,
	}
	if snapshot.MostSoldCategory != nil {
		response["most_sold_category"] = snapshot.MostSoldCategory.Name
	}
	if err := h.store.LastError(); err != nil {
		response["sync_error"] = err.Error()
	}

	c.JSON(http.StatusOK, response)
}

func (h *DashboardHandler) Refresh(c *gin.Context) {
	if err := h.store.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

func (h *DashboardHandler) ExportOrders(c *gin.Context) {
	filename, data, err := h.export.ExportOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *DashboardHandler) ExportCustomers(c *gin.Context) {
	filename, data, err := h.export.ExportCustomers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}
