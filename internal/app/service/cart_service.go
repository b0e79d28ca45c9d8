package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
	"github.com/ikkim/edubooks-storefront/pkg/storeapi"
	"github.com/shopspring/decimal"
)

var (
	ErrLoginRequired = errors.New("login required")
)

// CartSnapshot is a consistent read of the holder
type CartSnapshot struct {
	Items         []model.CartItem `json:"items"`
	Count         int              `json:"count"`
	Loading       bool             `json:"loading"`
	TotalPrice    model.Amount     `json:"total_price"`
	TotalDiscount model.Amount     `json:"total_discount"`
}

// CartService is the process-wide cart holder. Every mutation is followed by
// a full re-fetch; local state is never patched.
type CartService interface {
	Fetch(ctx context.Context) error
	Add(ctx context.Context, productID uint, qty int) error
	Update(ctx context.Context, itemID uint, qty int) error
	Remove(ctx context.Context, itemID uint) error
	ClearOne(ctx context.Context, cartID uint) error
	ClearAll(ctx context.Context) error
	Items() []model.CartItem
	Count() int
	TotalPrice() decimal.Decimal
	TotalDiscount() decimal.Decimal
	Loading() bool
	Snapshot() CartSnapshot
}

type cartService struct {
	api           StoreAPI
	session       SessionService
	notifications NotificationService

	mu       sync.RWMutex
	items    []model.CartItem
	inFlight atomic.Int32
}

func NewCartService(api StoreAPI, session SessionService, notifications NotificationService) CartService {
	s := &cartService{
		api:           api,
		session:       session,
		notifications: notifications,
	}
	session.OnLanguageChange(func(ctx context.Context, lang string) {
		if err := s.Fetch(ctx); err != nil {
			logger.Debug("Cart refresh after language change failed", map[string]interface{}{
				"lang":  lang,
				"error": err.Error(),
			})
		}
	})
	return s
}

func (s *cartService) begin() func() {
	s.inFlight.Add(1)
	return func() { s.inFlight.Add(-1) }
}

func (s *cartService) setItems(items []model.CartItem) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

func (s *cartService) listCarts(ctx context.Context) ([]model.Cart, error) {
	env, err := s.api.Get(ctx, "/carts", nil, requestOptions(ctx, s.session)...)
	if err != nil {
		return nil, err
	}
	var carts []model.Cart
	if err := env.DecodeData(&carts); err != nil {
		return nil, err
	}
	return carts, nil
}

// Fetch replaces the local items with the server's. Without a token the cart
// is emptied without any request. Failures also leave the cart empty.
func (s *cartService) Fetch(ctx context.Context) error {
	done := s.begin()
	defer done()

	if !s.session.IsLoggedIn(ctx) {
		s.setItems(nil)
		return nil
	}

	carts, err := s.listCarts(ctx)
	if err != nil {
		s.setItems(nil)
		logger.Warn("Failed to fetch cart", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	var items []model.CartItem
	for _, cart := range carts {
		for _, item := range cart.Items {
			if item.Product != nil {
				items = append(items, item)
			}
		}
	}
	s.setItems(items)

	logger.Debug("Cart fetched", map[string]interface{}{
		"carts": len(carts),
		"items": len(items),
	})
	return nil
}

// mutate runs one cart write with the shared login check, notifications and refresh.
func (s *cartService) mutate(ctx context.Context, path string, form *storeapi.Form, successKey, failureKey string) error {
	lang := s.session.Language(ctx)
	if !s.session.IsLoggedIn(ctx) {
		s.notifications.Error("", i18n.T(lang, i18n.CartLoginRequired))
		return ErrLoginRequired
	}

	done := s.begin()
	defer done()

	env, err := s.api.PostForm(ctx, path, form, requestOptions(ctx, s.session)...)
	if err != nil {
		logger.Warn("Cart update rejected", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		s.notifications.Error("", userMessage(err, lang, failureKey))
		return err
	}

	s.notifications.Success("", i18n.Or(env.Message, lang, successKey))
	// The mutation already succeeded; Fetch logs its own failure.
	_ = s.Fetch(ctx)
	return nil
}

func (s *cartService) Add(ctx context.Context, productID uint, qty int) error {
	logger.Info("Adding item to cart", map[string]interface{}{
		"product_id": productID,
		"quantity":   qty,
	})
	form := storeapi.NewForm().SetUint("product_id", productID).SetInt("qty", qty)
	return s.mutate(ctx, "/carts/add-items", form, i18n.CartAddSuccess, i18n.CartAddFailed)
}

func (s *cartService) Update(ctx context.Context, itemID uint, qty int) error {
	logger.Info("Updating cart item", map[string]interface{}{
		"cart_item_id": itemID,
		"quantity":     qty,
	})
	form := storeapi.NewForm().SetUint("item_id", itemID).SetInt("qty", qty)
	return s.mutate(ctx, "/carts/update-items", form, i18n.CartUpdateSuccess, i18n.CartUpdateFailed)
}

func (s *cartService) Remove(ctx context.Context, itemID uint) error {
	logger.Info("Removing cart item", map[string]interface{}{
		"cart_item_id": itemID,
	})
	form := storeapi.NewForm().SetUint("cart_item_id", itemID)
	return s.mutate(ctx, "/carts/delete-items", form, i18n.CartRemoveSuccess, i18n.CartRemoveFailed)
}

// ClearOne deletes a whole server-side cart without notifying on success.
func (s *cartService) ClearOne(ctx context.Context, cartID uint) error {
	if !s.session.IsLoggedIn(ctx) {
		s.notifications.Error("", i18n.T(s.session.Language(ctx), i18n.CartLoginRequired))
		return ErrLoginRequired
	}

	done := s.begin()
	defer done()

	form := storeapi.NewForm().SetUint("cart_id", cartID)
	if _, err := s.api.PostForm(ctx, "/carts/delete", form, requestOptions(ctx, s.session)...); err != nil {
		logger.Warn("Failed to clear cart", map[string]interface{}{
			"cart_id": cartID,
			"error":   err.Error(),
		})
		return err
	}
	return nil
}

// ClearAll deletes every server cart one after another, then empties the
// local state and re-fetches to confirm. Per-cart failures are tolerated.
func (s *cartService) ClearAll(ctx context.Context) error {
	if !s.session.IsLoggedIn(ctx) {
		return ErrLoginRequired
	}

	done := s.begin()
	defer done()

	carts, err := s.listCarts(ctx)
	if err != nil {
		logger.Warn("Failed to list carts for clearing", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	failed := 0
	for _, cart := range carts {
		form := storeapi.NewForm().SetUint("cart_id", cart.ID)
		if _, err := s.api.PostForm(ctx, "/carts/delete", form, requestOptions(ctx, s.session)...); err != nil {
			failed++
			logger.Warn("Failed to delete cart", map[string]interface{}{
				"cart_id": cart.ID,
				"error":   err.Error(),
			})
		}
	}

	logger.Info("Cleared carts", map[string]interface{}{
		"carts":  len(carts),
		"failed": failed,
	})

	s.setItems(nil)
	// An empty cart is already in place; Fetch logs its own failure.
	_ = s.Fetch(ctx)
	return nil
}

func (s *cartService) Items() []model.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *cartService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *cartService) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalPrice(s.items)
}

func (s *cartService) TotalDiscount() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalDiscount(s.items)
}

func (s *cartService) Loading() bool {
	return s.inFlight.Load() > 0
}

func (s *cartService) Snapshot() CartSnapshot {
	s.mu.RLock()
	items := make([]model.CartItem, len(s.items))
	copy(items, s.items)
	s.mu.RUnlock()

	return CartSnapshot{
		Items:         items,
		Count:         len(items),
		Loading:       s.Loading(),
		TotalPrice:    model.Amount{Decimal: totalPrice(items)},
		TotalDiscount: model.Amount{Decimal: totalDiscount(items)},
	}
}

func totalPrice(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func totalDiscount(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineDiscount())
	}
	return total
}
