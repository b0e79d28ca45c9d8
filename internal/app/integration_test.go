package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/edubooks-storefront/config"
	"github.com/ikkim/edubooks-storefront/internal/app/controller"
	"github.com/ikkim/edubooks-storefront/internal/app/repository"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
	"github.com/ikkim/edubooks-storefront/internal/db"
	"github.com/ikkim/edubooks-storefront/internal/middleware"
	"github.com/ikkim/edubooks-storefront/internal/router"
	ws "github.com/ikkim/edubooks-storefront/internal/websocket"
	"github.com/ikkim/edubooks-storefront/pkg/storeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bookstore is a small stateful stand-in for the remote API.
type bookstore struct {
	mu      sync.Mutex
	token   string
	cart    map[uint]int // product id -> qty
	orders  []string
	langs   []string
	deletes int
}

func (b *bookstore) authorized(r *http.Request) bool {
	return b.token != "" && r.Header.Get("Authorization") == "Bearer "+b.token
}

func (b *bookstore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.langs = append(b.langs, r.Header.Get("lang"))

	write := func(status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}

	switch {
	case r.URL.Path == "/auth/login":
		r.ParseMultipartForm(1 << 20)
		if r.FormValue("password") != "secret1" {
			write(http.StatusUnauthorized, `{"status":false,"message":"Wrong password"}`)
			return
		}
		phone := r.FormValue("phone")
		b.token = "tok-" + phone
		write(http.StatusOK, fmt.Sprintf(`{"status":true,"data":{"token":%q,"user":{"id":7,"name":"Mona","phone":%q}}}`, b.token, phone))
		return
	case r.URL.Path == "/home/offers-books-section":
		write(http.StatusOK, `{"status":true,"data":{"books_data":[{"id":5,"title":"Algebra","real_price":"40","fake_price":"50"}],"pagination":{"current_page":1,"last_page":1,"total":1}}}`)
		return
	}

	if !b.authorized(r) {
		write(http.StatusUnauthorized, `{"status":false,"message":"Unauthenticated"}`)
		return
	}

	switch r.URL.Path {
	case "/carts":
		var items []string
		for productID, qty := range b.cart {
			items = append(items, fmt.Sprintf(`{"id":%d,"qty":%d,"product":{"id":%d,"title":"Algebra","real_price":"40","fake_price":"50"}}`, productID+100, qty, productID))
		}
		write(http.StatusOK, `{"status":true,"data":[{"id":1,"items":[`+strings.Join(items, ",")+`]}]}`)
	case "/carts/add-items":
		r.ParseMultipartForm(1 << 20)
		productID, _ := strconv.Atoi(r.FormValue("product_id"))
		qty, _ := strconv.Atoi(r.FormValue("qty"))
		b.cart[uint(productID)] += qty
		write(http.StatusOK, `{"status":true,"message":"Added to cart"}`)
	case "/carts/delete":
		b.deletes++
		b.cart = make(map[uint]int)
		write(http.StatusOK, `{"status":true}`)
	case "/orders/checkout":
		r.ParseMultipartForm(1 << 20)
		if r.FormValue("address") == "" {
			write(http.StatusUnprocessableEntity, `{"status":false,"message":"Address required"}`)
			return
		}
		b.orders = append(b.orders, "pending")
		write(http.StatusOK, `{"status":true,"message":"Order placed"}`)
	case "/orders":
		var rows []string
		for i, status := range b.orders {
			rows = append(rows, fmt.Sprintf(`{"id":%d,"order_number":"ORD-%d","order_status":%q,"total_price_before_discount":"100","total_price_after_discount":"80"}`, i+1, i+1, status))
		}
		write(http.StatusOK, `{"status":true,"data":{"orders_data":[`+strings.Join(rows, ",")+`],"pagination":{"current_page":1,"last_page":1,"total":`+strconv.Itoa(len(rows))+`}}}`)
	case "/orders/cancel":
		r.ParseMultipartForm(1 << 20)
		id, _ := strconv.Atoi(r.FormValue("order_id"))
		if id >= 1 && id <= len(b.orders) {
			b.orders[id-1] = "cancelled"
		}
		write(http.StatusOK, `{"status":true,"message":"Order cancelled"}`)
	case "/auth/logout":
		b.token = ""
		write(http.StatusOK, `{"status":true}`)
	default:
		write(http.StatusNotFound, `{"status":false,"message":"not found"}`)
	}
}

type TestServer struct {
	Router *gin.Engine
	Store  *bookstore
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	store := &bookstore{cart: make(map[uint]int)}
	remote := httptest.NewServer(store)
	t.Cleanup(remote.Close)

	client, err := storeapi.NewClient(storeapi.Config{BaseURL: remote.URL, Timeout: 5 * time.Second, DefaultLanguage: "en"})
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	hub := ws.NewHub()
	session := service.NewSessionService(repository.NewStorageRepository(testDB), "en")
	notifications := service.NewNotificationService(hub)
	cart := service.NewCartService(client, session, notifications)
	shop := service.NewShopService(client, session, 20*time.Millisecond)
	t.Cleanup(shop.Close)

	notificationController := controller.NewNotificationController(notifications, hub, cfg.CORS.AllowedOrigins)
	go hub.Run()
	t.Cleanup(hub.Stop)

	r := router.NewRouter(
		controller.NewSessionController(session),
		controller.NewCartController(cart),
		controller.NewCatalogController(service.NewCatalogService(client, session, cart, notifications)),
		controller.NewShopController(shop),
		controller.NewAuthController(service.NewAuthService(client, session, cart, notifications, 6, nil)),
		controller.NewOrderController(service.NewOrderService(client, session, cart, notifications), nil),
		controller.NewSettingsController(service.NewSettingsService(client, session, notifications)),
		notificationController,
		middleware.NewSessionMiddleware(session),
		cfg,
	)

	return &TestServer{Router: r.Setup(), Store: store}
}

func (ts *TestServer) call(t *testing.T, method, path string, payload interface{}) (int, map[string]interface{}) {
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		json.Unmarshal(w.Body.Bytes(), &response)
	}
	return w.Code, response
}

func TestCompleteShopperJourney(t *testing.T) {
	ts := setupIntegrationTest(t)

	t.Log("Step 1: Switch to Arabic")
	status, resp := ts.call(t, http.MethodPut, "/api/v1/session/language", map[string]string{"language": "ar"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "rtl", resp["direction"])

	t.Log("Step 2: Adding before login is refused")
	status, _ = ts.call(t, http.MethodPost, "/api/v1/cart/items", map[string]int{"product_id": 5, "qty": 1})
	assert.Equal(t, http.StatusUnauthorized, status)

	t.Log("Step 3: Wrong password, then login")
	status, resp = ts.call(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"phone": "0100", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Wrong password", resp["message"])

	status, resp = ts.call(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"phone": "0100", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "done", resp["next"])

	t.Log("Step 4: Pick a quantity on the offers shelf and add it")
	status, _ = ts.call(t, http.MethodGet, "/api/v1/catalog/sections/offers", nil)
	require.Equal(t, http.StatusOK, status)
	ts.call(t, http.MethodPost, "/api/v1/catalog/sections/offers/quantities/5", map[string]int{"delta": 1})
	ts.call(t, http.MethodPost, "/api/v1/catalog/sections/offers/quantities/5", map[string]int{"delta": 1})
	status, _ = ts.call(t, http.MethodPost, "/api/v1/catalog/sections/offers/add/5", nil)
	require.Equal(t, http.StatusOK, status)

	t.Log("Step 5: Cart reflects the server")
	status, resp = ts.call(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), resp["count"])
	assert.Equal(t, float64(80), resp["total_price"])
	assert.Equal(t, float64(20), resp["total_discount"])

	t.Log("Step 6: Checkout empties the cart")
	status, resp = ts.call(t, http.MethodPost, "/api/v1/orders/checkout", map[string]interface{}{
		"city_id":   1,
		"region_id": 3,
		"address":   "12 Nile St",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Order placed", resp["message"])

	status, resp = ts.call(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), resp["count"])

	t.Log("Step 7: Order history and cancel")
	status, resp = ts.call(t, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, resp["orders_data"], 1)

	status, _ = ts.call(t, http.MethodPost, "/api/v1/orders/1/cancel", nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.call(t, http.MethodPost, "/api/v1/orders/1/cancel", nil)
	assert.Equal(t, http.StatusConflict, status)

	t.Log("Step 8: Logout locks the order pages again")
	status, _ = ts.call(t, http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.call(t, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	ts.Store.mu.Lock()
	defer ts.Store.mu.Unlock()
	assert.Equal(t, 1, ts.Store.deletes)
	for _, lang := range ts.Store.langs {
		assert.Equal(t, "ar", lang)
	}
}
