package service

import (
	"context"
	"sync"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
)

// ShelfState is what a listing page renders
type ShelfState struct {
	Section    Section           `json:"section"`
	Page       int               `json:"page"`
	Products   []model.Product   `json:"products"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
	Quantities map[uint]int      `json:"quantities"`
	Error      string            `json:"error,omitempty"`
	Loading    bool              `json:"loading"`
}

// Shelf is one paginated section with its pending quantities.
type Shelf struct {
	section       Section
	catalog       CatalogService
	cart          CartService
	session       SessionService
	notifications NotificationService
	picker        *QuantityPicker

	mu         sync.Mutex
	page       int
	products   []model.Product
	pagination *model.Pagination
	errMessage string
	loading    bool
}

func newShelf(section Section, catalog CatalogService, cart CartService, session SessionService, notifications NotificationService) *Shelf {
	return &Shelf{
		section:       section,
		catalog:       catalog,
		cart:          cart,
		session:       session,
		notifications: notifications,
		picker:        NewQuantityPicker(),
		page:          1,
		products:      []model.Product{},
	}
}

// Load fetches page and reseeds pending quantities from the cart. A failure
// leaves an empty list and an inline error.
func (s *Shelf) Load(ctx context.Context, page int) ShelfState {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	s.page = page
	s.loading = true
	s.mu.Unlock()

	s.picker.Seed(s.cart.Items())
	result, err := s.catalog.SectionPage(ctx, s.section, page)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.products = []model.Product{}
		s.pagination = nil
		s.errMessage = userMessage(err, s.session.Language(ctx), i18n.ShelfFetchFailed)
	} else {
		s.products = result.Products
		pagination := result.Pagination
		s.pagination = &pagination
		s.errMessage = ""
	}
	s.mu.Unlock()

	return s.State()
}

func (s *Shelf) State() ShelfState {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make([]model.Product, len(s.products))
	copy(products, s.products)
	return ShelfState{
		Section:    s.section,
		Page:       s.page,
		Products:   products,
		Pagination: s.pagination,
		Quantities: s.picker.All(),
		Error:      s.errMessage,
		Loading:    s.loading,
	}
}

// ChangeQuantity adjusts the pending quantity of productID
func (s *Shelf) ChangeQuantity(productID uint, delta int) int {
	return s.picker.Change(productID, delta)
}

func (s *Shelf) Quantity(productID uint) int {
	return s.picker.Get(productID)
}

// AddToCart submits the pending quantity. On success the pending quantity
// returns to zero; on failure it is kept.
func (s *Shelf) AddToCart(ctx context.Context, productID uint) error {
	lang := s.session.Language(ctx)
	if !s.session.IsLoggedIn(ctx) {
		s.notifications.Warning(i18n.T(lang, i18n.ShelfLoginRequiredTitle), i18n.T(lang, i18n.ShelfLoginRequired))
		return ErrLoginRequired
	}

	qty := s.picker.Get(productID)
	if qty == 0 {
		s.notifications.Warning(i18n.T(lang, i18n.ShelfQuantityRequiredTitle), i18n.T(lang, i18n.ShelfQuantityRequired))
		return ErrQuantityRequired
	}

	if err := s.cart.Add(ctx, productID, qty); err != nil {
		logger.Debug("Shelf add to cart failed", map[string]interface{}{
			"section":    s.section,
			"product_id": productID,
		})
		return err
	}

	s.picker.Reset(productID)
	s.notifications.Success(i18n.T(lang, i18n.ShelfAddedTitle), i18n.T(lang, i18n.ShelfAdded))
	return nil
}
