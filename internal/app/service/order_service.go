package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
	"github.com/ikkim/edubooks-storefront/pkg/storeapi"
)

var (
	ErrOrderNotCancellable = errors.New("only pending orders can be cancelled")
	ErrCheckoutIncomplete  = errors.New("city, region and address are required")
)

// maxExportPages bounds how many history pages one export walks.
const maxExportPages = 50

type OrderService interface {
	Cities(ctx context.Context) ([]model.Option, error)
	Regions(ctx context.Context, cityID uint) ([]model.Option, error)
	Checkout(ctx context.Context, req model.CheckoutRequest) (string, error)
	Orders(ctx context.Context, page int) (*model.OrderPage, error)
	Details(ctx context.Context, orderID uint) (*model.Order, error)
	Cancel(ctx context.Context, orderID uint) error
	Export(ctx context.Context) ([]byte, error)
}

type orderService struct {
	api           StoreAPI
	session       SessionService
	cart          CartService
	notifications NotificationService

	mu    sync.RWMutex
	known map[uint]model.OrderStatus
}

func NewOrderService(api StoreAPI, session SessionService, cart CartService, notifications NotificationService) OrderService {
	return &orderService{
		api:           api,
		session:       session,
		cart:          cart,
		notifications: notifications,
		known:         make(map[uint]model.OrderStatus),
	}
}

func (s *orderService) remember(orders ...model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range orders {
		if o.OrderStatus != "" {
			s.known[o.ID] = o.OrderStatus
		}
	}
}

func (s *orderService) options(ctx context.Context, path string) ([]model.Option, error) {
	env, err := s.api.Get(ctx, path, nil, requestOptions(ctx, s.session)...)
	if err != nil {
		return nil, err
	}
	var options []model.Option
	if err := env.DecodeData(&options); err != nil {
		return nil, err
	}
	return emptyIfNil(options), nil
}

func (s *orderService) Cities(ctx context.Context) ([]model.Option, error) {
	return s.options(ctx, "/settings/cities")
}

// Regions lists the regions of cityID. Callers drop the selected region when
// the city changes.
func (s *orderService) Regions(ctx context.Context, cityID uint) ([]model.Option, error) {
	return s.options(ctx, "/settings/regions/"+strconv.FormatUint(uint64(cityID), 10))
}

// Checkout places the order and empties every cart once it succeeds. A
// repeated submit places a second order.
func (s *orderService) Checkout(ctx context.Context, req model.CheckoutRequest) (string, error) {
	lang := s.session.Language(ctx)
	if !s.session.IsLoggedIn(ctx) {
		s.notifications.Error("", i18n.T(lang, i18n.CartLoginRequired))
		return "", ErrLoginRequired
	}
	if req.CityID == 0 || req.RegionID == 0 || strings.TrimSpace(req.Address) == "" {
		s.notifications.Error("", i18n.T(lang, i18n.OrdersFillRequired))
		return "", ErrCheckoutIncomplete
	}

	form := storeapi.NewForm().
		SetUint("city_id", req.CityID).
		SetUint("region_id", req.RegionID).
		Set("address", strings.TrimSpace(req.Address))

	env, err := s.api.PostForm(ctx, "/orders/checkout", form, requestOptions(ctx, s.session)...)
	if err != nil {
		logger.Warn("Checkout failed", map[string]interface{}{
			"city_id":   req.CityID,
			"region_id": req.RegionID,
			"error":     err.Error(),
		})
		s.notifications.Error("", userMessage(err, lang, i18n.OrdersCheckoutFailed))
		return "", err
	}

	logger.Info("Order placed", map[string]interface{}{
		"city_id":   req.CityID,
		"region_id": req.RegionID,
	})

	msg := i18n.Or(env.Message, lang, i18n.OrdersCheckoutSuccess)
	s.notifications.Success("", msg)

	if err := s.cart.ClearAll(ctx); err != nil {
		logger.Warn("Failed to clear carts after checkout", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return msg, nil
}

func (s *orderService) Orders(ctx context.Context, page int) (*model.OrderPage, error) {
	lang := s.session.Language(ctx)
	if !s.session.IsLoggedIn(ctx) {
		return nil, ErrLoginRequired
	}
	if page < 1 {
		page = 1
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	env, err := s.api.Get(ctx, "/orders", query, requestOptions(ctx, s.session)...)
	if err != nil {
		s.notifications.Error("", userMessage(err, lang, i18n.OrdersFetchFailed))
		return nil, err
	}

	var result model.OrderPage
	if err := env.DecodeData(&result); err != nil {
		s.notifications.Error("", i18n.T(lang, i18n.OrdersFetchFailed))
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	result.Orders = emptyIfNil(result.Orders)
	if result.Pagination.LastPage == 0 && env.Pagination != nil {
		result.Pagination = model.Pagination{
			CurrentPage: env.Pagination.CurrentPage,
			LastPage:    env.Pagination.LastPage,
			PerPage:     env.Pagination.PerPage,
			Total:       env.Pagination.Total,
		}
	}
	if result.Pagination.CurrentPage == 0 {
		result.Pagination.CurrentPage = page
	}
	if result.Pagination.LastPage == 0 {
		result.Pagination.LastPage = 1
	}

	s.remember(result.Orders...)
	return &result, nil
}

func (s *orderService) Details(ctx context.Context, orderID uint) (*model.Order, error) {
	lang := s.session.Language(ctx)
	if !s.session.IsLoggedIn(ctx) {
		return nil, ErrLoginRequired
	}

	path := "/orders/details/" + strconv.FormatUint(uint64(orderID), 10)
	env, err := s.api.Get(ctx, path, nil, requestOptions(ctx, s.session)...)
	if err != nil {
		s.notifications.Error("", userMessage(err, lang, i18n.OrdersDetailsFailed))
		return nil, err
	}

	var order model.Order
	if err := env.DecodeData(&order); err != nil {
		s.notifications.Error("", i18n.T(lang, i18n.OrdersDetailsFailed))
		return nil, fmt.Errorf("decode order details: %w", err)
	}
	if order.ID == 0 {
		order.ID = orderID
	}
	order.Products = emptyIfNil(order.Products)

	s.remember(order)
	return &order, nil
}

// Cancel refuses without a request when the last known status is not pending.
// Orders never seen before are sent to the server as is.
func (s *orderService) Cancel(ctx context.Context, orderID uint) error {
	lang := s.session.Language(ctx)
	if !s.session.IsLoggedIn(ctx) {
		return ErrLoginRequired
	}

	s.mu.RLock()
	status, ok := s.known[orderID]
	s.mu.RUnlock()
	if ok && status != model.OrderStatusPending {
		s.notifications.Warning("", i18n.T(lang, i18n.OrdersNotCancellable))
		return ErrOrderNotCancellable
	}

	form := storeapi.NewForm().SetUint("order_id", orderID)
	env, err := s.api.PostForm(ctx, "/orders/cancel", form, requestOptions(ctx, s.session)...)
	if err != nil {
		logger.Warn("Order cancel failed", map[string]interface{}{
			"order_id": orderID,
			"error":    err.Error(),
		})
		s.notifications.Error("", userMessage(err, lang, i18n.OrdersCancelFailed))
		return err
	}

	s.remember(model.Order{ID: orderID, OrderStatus: model.OrderStatusCancelled})
	s.notifications.Success("", i18n.Or(env.Message, lang, i18n.OrdersCancelSuccess))
	return nil
}

// Export walks the order history and renders it as an xlsx workbook.
func (s *orderService) Export(ctx context.Context) ([]byte, error) {
	var orders []model.Order
	for page := 1; page <= maxExportPages; page++ {
		result, err := s.Orders(ctx, page)
		if err != nil {
			return nil, err
		}
		orders = append(orders, result.Orders...)
		if page >= result.Pagination.LastPage {
			break
		}
	}

	data, err := ExportOrders(orders, s.session.Language(ctx))
	if err != nil {
		logger.Error("Failed to render order export", err, map[string]interface{}{
			"orders": len(orders),
		})
		return nil, err
	}
	return data, nil
}
