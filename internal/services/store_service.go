package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"paneteria_admin/internal/models"
	"paneteria_admin/internal/redis"
	"paneteria_admin/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Collections carried by the realtime change feed.
const (
	CollectionCategories = "product_categories"
	CollectionProducts   = "products"
	CollectionCustomers  = "customers"
	CollectionOrders     = "orders"
)

var (
	ErrCategoryHasProducts = errors.New("category still has products")
	ErrCustomerHasOrders   = errors.New("customer still has orders")
)

// ChangeFeed is the realtime transport between the store and its listeners.
// Implemented by the redis client; faked in tests.
type ChangeFeed interface {
	PublishChange(ctx context.Context, event redis.ChangeEvent) error
	SubscribeChanges(ctx context.Context, collections ...string) (<-chan redis.ChangeEvent, func())
}

// Notifier raises user-facing alerts. Fire-and-forget from the store's side.
type Notifier interface {
	Notify(title, message string, severity models.NotificationSeverity, action string)
}

// Snapshot is the complete joined in-memory view of the store at one point
// in time. It is built wholesale by Refresh and never mutated afterwards.
type Snapshot struct {
	Categories       []models.Category
	Products         []models.Product
	Customers        []models.Customer
	Orders           []models.Order
	MostSoldCategory *models.Category
	RefreshedAt      time.Time
}

func (s *Snapshot) CategoryByID(id uint) *models.Category {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return &s.Categories[i]
		}
	}
	return nil
}

func (s *Snapshot) ProductByID(id uint) *models.Product {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

func (s *Snapshot) CustomerByID(id uint) *models.Customer {
	for i := range s.Customers {
		if s.Customers[i].ID == id {
			return &s.Customers[i]
		}
	}
	return nil
}

// StoreService owns the authoritative snapshot of the five collections and
// every mutation against them. Each write ends in a full refresh, so callers
// always observe post-mutation consistent state.
type StoreService interface {
	Refresh(ctx context.Context) error
	Snapshot() *Snapshot
	LastError() error
	Subscribe() (<-chan *Snapshot, func())
	Listen(ctx context.Context)

	AddCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error

	AddProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error

	AddCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id uint) error

	AddOrder(ctx context.Context, order *models.Order) error
	UpdateOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, id uint) error

	UpdateCustomerTotals(ctx context.Context, customerID uint) error
	UpdateProductSales(ctx context.Context) error
}

type storeService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	feed         ChangeFeed
	notifier     Notifier

	mu        sync.RWMutex
	snapshot  *Snapshot
	lastErr   error
	subs      map[int]chan *Snapshot
	nextSubID int
}

func NewStoreService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	feed ChangeFeed,
	notifier Notifier,
) StoreService {
	return &storeService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		feed:         feed,
		notifier:     notifier,
		snapshot:     &Snapshot{},
		subs:         make(map[int]chan *Snapshot),
	}
}

// Refresh rebuilds the whole snapshot from four parallel reads. If any read
// fails the previous snapshot is kept and the error state is set; no partial
// snapshot is ever published. Concurrent refreshes are not deduplicated; the
// last one to finish wins.
func (s *storeService) Refresh(ctx context.Context) error {
	var (
		categories []models.Category
		products   []models.Product
		customers  []models.Customer
		orders     []models.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.productRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = s.customerRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orderRepo.GetAll(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		err = fmt.Errorf("refresh failed: %w", err)
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		log.Error().Err(err).Msg("store: snapshot refresh failed, keeping previous snapshot")
		return err
	}

	productsPerCategory := make(map[uint]int, len(categories))
	for _, product := range products {
		productsPerCategory[product.CategoryID]++
	}
	for i := range categories {
		categories[i].ProductCount = productsPerCategory[categories[i].ID]
	}

	snapshot := &Snapshot{
		Categories:       categories,
		Products:         products,
		Customers:        customers,
		Orders:           orders,
		MostSoldCategory: mostSoldCategory(categories, products),
		RefreshedAt:      time.Now(),
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.lastErr = nil
	for _, sub := range s.subs {
		select {
		case sub <- snapshot:
		default:
		}
	}
	s.mu.Unlock()

	return nil
}

// mostSoldCategory returns the category of the product with the highest
// sales count, or nil when there are no products. On a tie the first product
// in snapshot order wins.
func mostSoldCategory(categories []models.Category, products []models.Product) *models.Category {
	var top *models.Product
	for i := range products {
		if top == nil || products[i].TotalSold > top.TotalSold {
			top = &products[i]
		}
	}
	if top == nil {
		return nil
	}
	for i := range categories {
		if categories[i].ID == top.CategoryID {
			return &categories[i]
		}
	}
	return nil
}

func (s *storeService) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *storeService) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Subscribe registers a consumer for newly published snapshots. Slow
// consumers miss intermediate snapshots instead of blocking the writer.
func (s *storeService) Subscribe() (<-chan *Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	sub := make(chan *Snapshot, 1)
	s.subs[id] = sub

	return sub, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
}

// Listen consumes the realtime change feed for categories, products and
// customers and resolves every event with a full refresh. Orders refresh
// synchronously inside their own mutations instead.
func (s *storeService) Listen(ctx context.Context) {
	events, cancel := s.feed.SubscribeChanges(ctx, CollectionCategories, CollectionProducts, CollectionCustomers)
	defer cancel()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			log.Debug().
				Str("collection", event.Collection).
				Str("event_type", event.EventType).
				Uint("entity_id", event.EntityID).
				Msg("store: change event received")
			if err := s.Refresh(ctx); err != nil {
				log.Error().Err(err).Msg("store: refresh after change event failed")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *storeService) publishChange(ctx context.Context, collection, eventType string, entityID uint, summary string) {
	if s.feed == nil {
		return
	}
	event := redis.ChangeEvent{
		Collection: collection,
		EventType:  eventType,
		EntityID:   entityID,
		Summary:    summary,
		Timestamp:  time.Now(),
	}
	if err := s.feed.PublishChange(ctx, event); err != nil {
		log.Warn().Err(err).Str("collection", collection).Msg("store: failed to publish change event")
	}
}

func (s *storeService) notify(title, message string, severity models.NotificationSeverity) {
	if s.notifier != nil {
		s.notifier.Notify(title, message, severity, "")
	}
}

// -- Categories --

func (s *storeService) AddCategory(ctx context.Context, category *models.Category) error {
	category.ProductCount = 0
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return err
	}
	s.publishChange(ctx, CollectionCategories, redis.EventInsert, category.ID, category.Name)
	return s.Refresh(ctx)
}

func (s *storeService) UpdateCategory(ctx context.Context, category *models.Category) error {
	category.ProductCount = 0
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return err
	}
	s.publishChange(ctx, CollectionCategories, redis.EventUpdate, category.ID, category.Name)
	return s.Refresh(ctx)
}

// DeleteCategory refuses locally when the category still has products. The
// check is advisory; the store's referential integrity is authoritative.
func (s *storeService) DeleteCategory(ctx context.Context, id uint) error {
	if category := s.Snapshot().CategoryByID(id); category != nil && category.ProductCount > 0 {
		s.notify("Category not deleted",
			fmt.Sprintf("%q still has %d product(s)", category.Name, category.ProductCount),
			models.SeverityWarning)
		return ErrCategoryHasProducts
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishChange(ctx, CollectionCategories, redis.EventDelete, id, "")
	return s.Refresh(ctx)
}

// -- Products --

func (s *storeService) AddProduct(ctx context.Context, product *models.Product) error {
	product.TotalSold = 0
	if product.PriceHistory == nil {
		product.PriceHistory = models.PriceHistory{{Date: time.Now(), Price: product.Price}}
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}
	s.publishChange(ctx, CollectionProducts, redis.EventInsert, product.ID, product.Name)
	return s.Refresh(ctx)
}

func (s *storeService) UpdateProduct(ctx context.Context, product *models.Product) error {
	// Sales counters are recomputed, never taken from the caller.
	if current := s.Snapshot().ProductByID(product.ID); current != nil {
		product.TotalSold = current.TotalSold
		product.PriceHistory = current.PriceHistory
		if !current.Price.Equal(product.Price) {
			product.PriceHistory = append(product.PriceHistory, models.PricePoint{
				Date:  time.Now(),
				Price: product.Price,
			})
		}
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	s.publishChange(ctx, CollectionProducts, redis.EventUpdate, product.ID, product.Name)
	return s.Refresh(ctx)
}

// DeleteProduct is allowed even for products referenced by historical orders;
// line items keep their own price snapshot. The operator just gets a warning.
func (s *storeService) DeleteProduct(ctx context.Context, id uint) error {
	references, err := s.orderRepo.CountItemsByProduct(ctx, id)
	if err != nil {
		return err
	}
	if references > 0 {
		s.notify("Product has order history",
			fmt.Sprintf("product %d is referenced by %d order item(s); past orders keep their recorded price", id, references),
			models.SeverityWarning)
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishChange(ctx, CollectionProducts, redis.EventDelete, id, "")
	return s.Refresh(ctx)
}

// -- Customers --

func (s *storeService) AddCustomer(ctx context.Context, customer *models.Customer) error {
	clearCustomerAggregates(customer)
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return err
	}
	s.publishChange(ctx, CollectionCustomers, redis.EventInsert, customer.ID, customer.Name)
	return s.Refresh(ctx)
}

func (s *storeService) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	// Aggregates come from UpdateCustomerTotals, never from the form.
	if current := s.Snapshot().CustomerByID(customer.ID); current != nil {
		customer.TotalOrders = current.TotalOrders
		customer.TotalSpent = current.TotalSpent
		customer.CompletedOrders = current.CompletedOrders
		customer.CancelledOrders = current.CancelledOrders
		customer.PendingOrders = current.PendingOrders
		customer.PaidSpent = current.PaidSpent
		customer.PendingSpent = current.PendingSpent
	} else {
		clearCustomerAggregates(customer)
	}
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return err
	}
	s.publishChange(ctx, CollectionCustomers, redis.EventUpdate, customer.ID, customer.Name)
	return s.Refresh(ctx)
}

func (s *storeService) DeleteCustomer(ctx context.Context, id uint) error {
	orderCount, err := s.orderRepo.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if orderCount > 0 {
		name := fmt.Sprintf("customer %d", id)
		if customer := s.Snapshot().CustomerByID(id); customer != nil {
			name = customer.Name
		}
		s.notify("Customer not deleted",
			fmt.Sprintf("%s has %d order(s) on record", name, orderCount),
			models.SeverityWarning)
		return ErrCustomerHasOrders
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishChange(ctx, CollectionCustomers, redis.EventDelete, id, "")
	return s.Refresh(ctx)
}

func clearCustomerAggregates(customer *models.Customer) {
	*customer = models.Customer{
		ID:                  customer.ID,
		Name:                customer.Name,
		WhatsApp:            customer.WhatsApp,
		Email:               customer.Email,
		Address:             customer.Address,
		Observations:        customer.Observations,
		DeliveryPreferences: customer.DeliveryPreferences,
		IsGiftEligible:      customer.IsGiftEligible,
		CreatedAt:           customer.CreatedAt,
	}
}

// -- Orders --

func (s *storeService) AddOrder(ctx context.Context, order *models.Order) error {
	if order.Number == 0 {
		number, err := s.orderRepo.NextNumber(ctx)
		if err != nil {
			return fmt.Errorf("failed to allocate order number: %w", err)
		}
		order.Number = number
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now()
	}
	order.Normalize()
	order.ComputeTotals()

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return err
	}
	s.publishChange(ctx, CollectionOrders, redis.EventInsert, order.ID, orderSummary(order))
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	s.recomputeAfterOrderMutation(ctx, order.CustomerID)
	return nil
}

func (s *storeService) UpdateOrder(ctx context.Context, order *models.Order) error {
	order.Normalize()
	order.ComputeTotals()
	for i := range order.Items {
		// Replaced wholesale by the repository; stale ids must not survive.
		order.Items[i].ID = 0
		order.Items[i].OrderID = order.ID
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}
	s.publishChange(ctx, CollectionOrders, redis.EventUpdate, order.ID, orderSummary(order))
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	s.recomputeAfterOrderMutation(ctx, order.CustomerID)
	return nil
}

func (s *storeService) DeleteOrder(ctx context.Context, id uint) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishChange(ctx, CollectionOrders, redis.EventDelete, id, "")
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	s.recomputeAfterOrderMutation(ctx, order.CustomerID)
	return nil
}

// recomputeAfterOrderMutation cascades the denormalized aggregates that
// depend on orders. Failures are logged and never roll back the order write;
// the aggregates stay stale until the next successful recomputation.
func (s *storeService) recomputeAfterOrderMutation(ctx context.Context, customerID uint) {
	if err := s.UpdateCustomerTotals(ctx, customerID); err != nil {
		log.Error().Err(err).Uint("customer_id", customerID).Msg("store: customer totals recomputation failed")
	}
	if err := s.UpdateProductSales(ctx); err != nil {
		log.Error().Err(err).Msg("store: product sales recomputation failed")
	}
}

// UpdateCustomerTotals is a read-recompute-write cycle with no concurrency
// guard: concurrent order mutations for the same customer may race and the
// later write wins. Accepted for a single-operator tool.
func (s *storeService) UpdateCustomerTotals(ctx context.Context, customerID uint) error {
	orders, err := s.orderRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to fetch customer orders: %w", err)
	}

	totals := models.CustomerTotals{TotalOrders: len(orders)}
	for _, order := range orders {
		switch order.Status {
		case models.OrderDelivered:
			totals.CompletedOrders++
		case models.OrderCancelled:
			totals.CancelledOrders++
			continue
		default:
			totals.PendingOrders++
		}

		totals.TotalSpent = totals.TotalSpent.Add(order.Total)
		switch order.PaymentStatus {
		case models.PaymentPaid:
			totals.PaidSpent = totals.PaidSpent.Add(order.Total)
		case models.PaymentPending:
			totals.PendingSpent = totals.PendingSpent.Add(order.Total)
		}
	}

	if err := s.customerRepo.UpdateTotals(ctx, customerID, totals); err != nil {
		return fmt.Errorf("failed to write customer totals: %w", err)
	}
	s.publishChange(ctx, CollectionCustomers, redis.EventUpdate, customerID, "totals recomputed")
	return nil
}

// UpdateProductSales refreshes the per-product sold counters from all
// non-cancelled order line items.
func (s *storeService) UpdateProductSales(ctx context.Context) error {
	sales, err := s.orderRepo.SalesByProduct(ctx)
	if err != nil {
		return fmt.Errorf("failed to aggregate product sales: %w", err)
	}
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}

	for _, product := range products {
		sold := sales[product.ID]
		if sold == product.TotalSold {
			continue
		}
		if err := s.productRepo.UpdateSales(ctx, product.ID, sold); err != nil {
			return fmt.Errorf("failed to write sales for product %d: %w", product.ID, err)
		}
		s.publishChange(ctx, CollectionProducts, redis.EventUpdate, product.ID, "sales recomputed")
	}
	return nil
}

func orderSummary(order *models.Order) string {
	name := ""
	if order.Customer != nil {
		name = order.Customer.Name
	}
	return fmt.Sprintf("order #%d %s %s", order.Number, name, order.Total.StringFixed(2))
}
