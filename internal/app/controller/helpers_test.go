package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/app/repository"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
	"github.com/ikkim/edubooks-storefront/internal/db"
	"github.com/ikkim/edubooks-storefront/internal/middleware"
	ws "github.com/ikkim/edubooks-storefront/internal/websocket"
	"github.com/ikkim/edubooks-storefront/pkg/storeapi"
	"github.com/stretchr/testify/require"
)

// remoteAPI is a canned stand-in for the bookstore API.
type remoteAPI struct {
	server *httptest.Server

	mu     sync.Mutex
	routes map[string]string
	status map[string]int
	hits   map[string]int
}

func newRemoteAPI(t *testing.T) *remoteAPI {
	api := &remoteAPI{
		routes: make(map[string]string),
		status: make(map[string]int),
		hits:   make(map[string]int),
	}
	api.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		api.mu.Lock()
		api.hits[key]++
		body, ok := api.routes[key]
		status := api.status[key]
		api.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status":false,"message":"not found"}`))
			return
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(api.server.Close)
	return api
}

func (a *remoteAPI) reply(method, path string, status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[method+" "+path] = body
	a.status[method+" "+path] = status
}

func (a *remoteAPI) count(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits[method+" "+path]
}

// gateway bundles the services a controller test needs.
type gateway struct {
	api           *remoteAPI
	router        *gin.Engine
	session       service.SessionService
	notifications service.NotificationService
	cart          service.CartService
	catalog       service.CatalogService
	shop          service.ShopService
	auth          service.AuthService
	orders        service.OrderService
	settings      service.SettingsService
	hub           *ws.Hub
	middleware    *middleware.SessionMiddleware
}

func setupGateway(t *testing.T) *gateway {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	api := newRemoteAPI(t)
	client, err := storeapi.NewClient(storeapi.Config{BaseURL: api.server.URL, DefaultLanguage: "en"})
	require.NoError(t, err)

	hub := ws.NewHub()
	session := service.NewSessionService(repository.NewStorageRepository(testDB), "en")
	notifications := service.NewNotificationService(hub)
	cart := service.NewCartService(client, session, notifications)
	shop := service.NewShopService(client, session, 20*time.Millisecond)
	t.Cleanup(shop.Close)

	g := &gateway{
		api:           api,
		session:       session,
		notifications: notifications,
		cart:          cart,
		catalog:       service.NewCatalogService(client, session, cart, notifications),
		shop:          shop,
		auth:          service.NewAuthService(client, session, cart, notifications, 6, service.NewCooldown(time.Minute, nil)),
		orders:        service.NewOrderService(client, session, cart, notifications),
		settings:      service.NewSettingsService(client, session, notifications),
		hub:           hub,
		middleware:    middleware.NewSessionMiddleware(session),
	}

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(g.middleware.Language())
	g.router = router
	return g
}

func (g *gateway) login(t *testing.T) {
	require.NoError(t, g.session.SaveLogin(context.Background(), "tok", &model.User{ID: 1, Name: "Student"}))
}

func (g *gateway) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}
