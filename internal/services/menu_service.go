package services

import (
	"context"
	"time"

	"paneteria_admin/internal/redis"

	"github.com/rs/zerolog/log"
)

const menuCacheKey = "public_menu"

// MenuCache is the cache surface the menu needs from the redis client.
type MenuCache interface {
	SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetCache(ctx context.Context, key string, dest interface{}) error
	DeleteCache(ctx context.Context, key string) error
}

// MenuProduct and MenuCategory are the public shapes of the digital menu.
// Only active categories and active products are exposed.
type MenuProduct struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Weight      string `json:"weight,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type MenuCategory struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Products    []MenuProduct `json:"products"`
}

type MenuService interface {
	Menu(ctx context.Context) ([]MenuCategory, error)
	WatchSnapshots(ctx context.Context)
}

type menuService struct {
	store StoreService
	cache MenuCache
	ttl   time.Duration
}

func NewMenuService(store StoreService, cache MenuCache, ttl time.Duration) MenuService {
	return &menuService{store: store, cache: cache, ttl: ttl}
}

func (s *menuService) Menu(ctx context.Context) ([]MenuCategory, error) {
	if s.cache != nil {
		var cached []MenuCategory
		err := s.cache.GetCache(ctx, menuCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if err != redis.ErrCacheMiss {
			log.Warn().Err(err).Msg("menu: cache read failed, rebuilding from snapshot")
		}
	}

	menu := buildMenu(s.store.Snapshot())

	if s.cache != nil {
		if err := s.cache.SetCache(ctx, menuCacheKey, menu, s.ttl); err != nil {
			log.Warn().Err(err).Msg("menu: cache write failed")
		}
	}

	return menu, nil
}

// WatchSnapshots drops the cached menu whenever a new snapshot is published,
// so the public menu follows admin edits within one request.
func (s *menuService) WatchSnapshots(ctx context.Context) {
	if s.cache == nil {
		return
	}

	snapshots, cancel := s.store.Subscribe()
	defer cancel()

	for {
		select {
		case _, ok := <-snapshots:
			if !ok {
				return
			}
			if err := s.cache.DeleteCache(ctx, menuCacheKey); err != nil {
				log.Warn().Err(err).Msg("menu: cache invalidation failed")
			}
		case <-ctx.Done():
			return
		}
	}
}

func buildMenu(snapshot *Snapshot) []MenuCategory {
	menu := make([]MenuCategory, 0, len(snapshot.Categories))
	for _, category := range snapshot.Categories {
		if !category.IsActive {
			continue
		}

		entry := MenuCategory{
			ID:          category.ID,
			Name:        category.Name,
			Description: category.Description,
			Products:    []MenuProduct{},
		}
		for _, product := range snapshot.Products {
			if product.CategoryID != category.ID || !product.IsActive {
				continue
			}
			entry.Products = append(entry.Products, MenuProduct{
				ID:          product.ID,
				Name:        product.Name,
				Description: product.Description,
				Price:       product.Price.StringFixed(2),
				Weight:      product.Weight,
				ImageURL:    product.ImageURL,
			})
		}
		if len(entry.Products) > 0 {
			menu = append(menu, entry)
		}
	}
	return menu
}
