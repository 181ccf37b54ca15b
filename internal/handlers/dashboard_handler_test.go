package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"paneteria_admin/internal/handlers"
	"paneteria_admin/internal/models"
	"paneteria_admin/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore overrides only the read surface the dashboard touches.
type stubStore struct {
	services.StoreService
	snap    *services.Snapshot
	lastErr error
}

func (s *stubStore) Snapshot() *services.Snapshot { return s.snap }
func (s *stubStore) LastError() error             { return s.lastErr }

func dashboardResponse(t *testing.T, store *stubStore) map[string]interface{} {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/api/admin/dashboard", handlers.NewDashboardHandler(store, nil).Dashboard)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestDashboard_RevenueExcludesCancelled(t *testing.T) {
	snap := &services.Snapshot{
		Customers: []models.Customer{{ID: 1}},
		Orders: []models.Order{
			{Status: models.OrderDelivered, PaymentStatus: models.PaymentPaid, Total: decimal.RequireFromString("100.00")},
			{Status: models.OrderPending, PaymentStatus: models.PaymentPending, Total: decimal.RequireFromString("50.00")},
			{Status: models.OrderCancelled, PaymentStatus: models.PaymentCancelled, Total: decimal.RequireFromString("30.00")},
		},
	}

	body := dashboardResponse(t, &stubStore{snap: snap})

	assert.Equal(t, "100.00", body["revenue"])
	assert.Equal(t, "50.00", body["pending_revenue"])
	assert.Equal(t, float64(1), body["total_customers"])

	byStatus, ok := body["orders_by_status"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), byStatus["delivered"])
	assert.Equal(t, float64(1), byStatus["cancelled"])
	assert.NotContains(t, body, "sync_error")
	assert.NotContains(t, body, "most_sold_category")
}

func TestDashboard_TopProductsCappedAtFive(t *testing.T) {
	snap := &services.Snapshot{}
	for i := 1; i <= 7; i++ {
		snap.Products = append(snap.Products, models.Product{ID: uint(i), Name: "p", TotalSold: i})
	}
	snap.Products = append(snap.Products, models.Product{ID: 8, Name: "unsold", TotalSold: 0})

	body := dashboardResponse(t, &stubStore{snap: snap})

	top, ok := body["top_products"].([]interface{})
	require.True(t, ok)
	require.Len(t, top, 5)
	first := top[0].(map[string]interface{})
	assert.Equal(t, float64(7), first["total_sold"])
}

func TestDashboard_ReportsSyncError(t *testing.T) {
	store := &stubStore{
		snap:    &services.Snapshot{MostSoldCategory: &models.Category{Name: "Breads"}},
		lastErr: errors.New("refresh failed: connection refused"),
	}

	body := dashboardResponse(t, store)

	assert.Equal(t, "refresh failed: connection refused", body["sync_error"])
	assert.Equal(t, "Breads", body["most_sold_category"])
}
