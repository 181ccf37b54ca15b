package repository

import (
	"context"

	"paneteria_admin/internal/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByCustomerID(ctx context.Context, customerID uint) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uint) error
	NextNumber(ctx context.Context) (int, error)
	CountByCustomer(ctx context.Context, customerID uint) (int64, error)
	CountItemsByProduct(ctx context.Context, productID uint) (int64, error)
	SalesByProduct(ctx context.Context) (map[uint]int, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.Product").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetAll returns orders joined with their customer and line items, newest
// first, in one read.
func (r *orderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.Product").
		Order("order_date DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

// GetByCustomerID reads only the fields needed for aggregate recomputation.
func (r *orderRepository) GetByCustomerID(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Select("id", "customer_id", "status", "payment_status", "total").
		Where("customer_id = ?", customerID).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Line items are replaced wholesale, matching the rebuilt totals.
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Save(order).Error
	})
}

func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
}

func (r *orderRepository) NextNumber(ctx context.Context) (int, error) {
	var next int
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(MAX(number), 0) + 1").
		Scan(&next).Error
	return next, err
}

func (r *orderRepository) CountByCustomer(ctx context.Context, customerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}

func (r *orderRepository) CountItemsByProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// SalesByProduct sums sold quantities per product across all non-cancelled
// orders.
func (r *orderRepository) SalesByProduct(ctx context.Context) (map[uint]int, error) {
	var rows []struct {
		ProductID uint
		Sold      int
	}
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("order_items.product_id as product_id, SUM(order_items.quantity) as sold").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", models.OrderCancelled).
		Group("order_items.product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sales := make(map[uint]int, len(rows))
	for _, row := range rows {
		sales[row.ProductID] = row.Sold
	}
	return sales, nil
}
