package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

// ExportService serializes snapshot collections to CSV for download.
// Fields containing commas are quoted; the filename carries the export date.
type ExportService interface {
	ExportOrders() (string, []byte, error)
	ExportCustomers() (string, []byte, error)
}

type exportService struct {
	store StoreService
}

func NewExportService(store StoreService) ExportService {
	return &exportService{store: store}
}

func (s *exportService) ExportOrders() (string, []byte, error) {
	snapshot := s.store.Snapshot()

	records := [][]string{{
		"number", "customer", "order_date", "status", "payment_status",
		"payment_method", "delivery_method", "sales_channel",
		"subtotal", "delivery_fee", "order_discount", "total", "notes",
	}}
	for _, order := range snapshot.Orders {
		customerName := ""
		if order.Customer != nil {
			customerName = order.Customer.Name
		}
		records = append(records, []string{
			strconv.Itoa(order.Number),
			customerName,
			order.OrderDate.Format("2006-01-02"),
			string(order.Status),
			string(order.PaymentStatus),
			order.PaymentMethod,
			order.DeliveryMethod,
			order.SalesChannel,
			order.Subtotal.StringFixed(2),
			order.DeliveryFee.StringFixed(2),
			order.OrderDiscount.StringFixed(2),
			order.Total.StringFixed(2),
			order.Notes,
		})
	}

	return writeCSV("orders", records)
}

func (s *exportService) ExportCustomers() (string, []byte, error) {
	snapshot := s.store.Snapshot()

	records := [][]string{{
		"name", "whatsapp", "email", "address",
		"total_orders", "completed_orders", "cancelled_orders", "pending_orders",
		"total_spent", "paid_spent", "pending_spent",
	}}
	for _, customer := range snapshot.Customers {
		records = append(records, []string{
			customer.Name,
			customer.WhatsApp,
			customer.Email,
			customer.Address,
			strconv.Itoa(customer.TotalOrders),
			strconv.Itoa(customer.CompletedOrders),
			strconv.Itoa(customer.CancelledOrders),
			strconv.Itoa(customer.PendingOrders),
			customer.TotalSpent.StringFixed(2),
			customer.PaidSpent.StringFixed(2),
			customer.PendingSpent.StringFixed(2),
		})
	}

	return writeCSV("customers", records)
}

func writeCSV(prefix string, records [][]string) (string, []byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(records); err != nil {
		return "", nil, fmt.Errorf("failed to write csv: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.csv", prefix, time.Now().Format("2006-01-02"))
	return filename, buf.Bytes(), nil
}
