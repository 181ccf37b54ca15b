package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"paneteria_admin/internal/models"
	"paneteria_admin/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportService_ExportOrders(t *testing.T) {
	ctx := context.Background()
	data, store, _ := newTestStore(t)

	data.customers = []models.Customer{{ID: 1, Name: "Ana Souza"}}
	data.orders = []models.Order{{
		ID:            20,
		Number:        7,
		CustomerID:    1,
		OrderDate:     time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
		Status:        models.OrderDelivered,
		PaymentStatus: models.PaymentPaid,
		PaymentMethod: "pix",
		Subtotal:      decimal.RequireFromString("40.00"),
		DeliveryFee:   decimal.RequireFromString("5.00"),
		Total:         decimal.RequireFromString("45.00"),
		Notes:         `ring the bell, "twice"`,
	}}
	require.NoError(t, store.Refresh(ctx))

	filename, body, err := services.NewExportService(store).ExportOrders()
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("orders_%s.csv", time.Now().Format("2006-01-02")), filename)

	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"number,customer,order_date,status,payment_status,payment_method,delivery_method,sales_channel,subtotal,delivery_fee,order_discount,total,notes",
		lines[0])
	assert.Contains(t, lines[1], "7,Ana Souza,2026-08-15,delivered,paid,pix")
	assert.Contains(t, lines[1], "40.00,5.00,0.00,45.00")
	assert.Contains(t, lines[1], `"ring the bell, ""twice"""`, "commas and quotes must survive the round trip")
}

func TestExportService_ExportCustomers(t *testing.T) {
	ctx := context.Background()
	data, store, _ := newTestStore(t)

	data.customers = []models.Customer{{
		ID:              1,
		Name:            "Ana Souza",
		WhatsApp:        "11987654321",
		Email:           "ana@example.com",
		Address:         "Rua das Flores, 10",
		TotalOrders:     3,
		CompletedOrders: 1,
		CancelledOrders: 1,
		PendingOrders:   1,
		TotalSpent:      decimal.RequireFromString("150.00"),
		PaidSpent:       decimal.RequireFromString("100.00"),
		PendingSpent:    decimal.RequireFromString("50.00"),
	}}
	require.NoError(t, store.Refresh(ctx))

	filename, body, err := services.NewExportService(store).ExportCustomers()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "customers_"))

	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `Ana Souza,11987654321,ana@example.com,"Rua das Flores, 10",3,1,1,1,150.00,100.00,50.00`, lines[1])
}
