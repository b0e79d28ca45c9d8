package controller

import (
	"net/http"
	"testing"

	apperrors "github.com/ikkim/edubooks-storefront/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const offersBody = `{"status":true,"data":{"books_data":[
	{"id":5,"title":"Algebra","real_price":10,"fake_price":12},
	{"id":6,"title":"Physics","real_price":"8","fake_price":""}
],"pagination":{"current_page":1,"last_page":3,"total":30}}}`

func setupCatalogRoutes(g *gateway) {
	ctrl := NewCatalogController(g.catalog)
	g.router.GET("/catalog/home", ctrl.GetHome)
	g.router.GET("/catalog/sections/:section", ctrl.GetSection)
	g.router.POST("/catalog/sections/:section/quantities/:product_id", ctrl.ChangeQuantity)
	g.router.POST("/catalog/sections/:section/add/:product_id", ctrl.AddToCart)
	g.router.GET("/catalog/products/:id", ctrl.GetProduct)
}

func TestCatalogController_GetHome_PartialFailure(t *testing.T) {
	g := setupGateway(t)
	setupCatalogRoutes(g)
	g.api.reply(http.MethodGet, "/home/offers-books-section", http.StatusOK, offersBody)
	g.api.reply(http.MethodGet, "/home/teacher-books-section", http.StatusOK, `{"status":true,"data":{"books_data":[]}}`)
	g.api.reply(http.MethodGet, "/home/best-seller-books-section", http.StatusInternalServerError, `{"message":"boom"}`)

	w := g.do(http.MethodGet, "/catalog/home", nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := decode(t, w)
	sections := response["sections"].(map[string]interface{})
	offers := sections["offers"].(map[string]interface{})
	assert.Len(t, offers["books_data"], 2)
	assert.Contains(t, response["errors"], "most-selling")
	assert.NotContains(t, response["errors"], "offers")
}

func TestCatalogController_GetSection(t *testing.T) {
	g := setupGateway(t)
	setupCatalogRoutes(g)
	g.api.reply(http.MethodGet, "/home/offers-books-section", http.StatusOK, offersBody)

	w := g.do(http.MethodGet, "/catalog/sections/offers?page=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := decode(t, w)
	assert.Equal(t, "offers", response["section"])
	assert.Len(t, response["products"], 2)

	w = g.do(http.MethodGet, "/catalog/sections/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ResourceNotFound, decode(t, w)["error"])
}

func TestCatalogController_ChangeQuantity_NeverNegative(t *testing.T) {
	g := setupGateway(t)
	setupCatalogRoutes(g)

	w := g.do(http.MethodPost, "/catalog/sections/offers/quantities/5", map[string]int{"delta": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["qty"])

	w = g.do(http.MethodPost, "/catalog/sections/offers/quantities/5", map[string]int{"delta": -5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["qty"])
}

func TestCatalogController_AddToCart(t *testing.T) {
	t.Run("login required", func(t *testing.T) {
		g := setupGateway(t)
		setupCatalogRoutes(g)

		w := g.do(http.MethodPost, "/catalog/sections/offers/add/5", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("quantity required", func(t *testing.T) {
		g := setupGateway(t)
		setupCatalogRoutes(g)
		g.login(t)

		w := g.do(http.MethodPost, "/catalog/sections/offers/add/5", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.CartQuantityRequired, decode(t, w)["error"])
		assert.Equal(t, 0, g.api.count(http.MethodPost, "/carts/add-items"))
	})

	t.Run("submits pending quantity", func(t *testing.T) {
		g := setupGateway(t)
		setupCatalogRoutes(g)
		g.login(t)
		g.api.reply(http.MethodPost, "/carts/add-items", http.StatusOK, `{"status":true}`)
		g.api.reply(http.MethodGet, "/carts", http.StatusOK, `{"status":true,"data":[]}`)

		g.do(http.MethodPost, "/catalog/sections/offers/quantities/5", map[string]int{"delta": 3})
		w := g.do(http.MethodPost, "/catalog/sections/offers/add/5", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, g.api.count(http.MethodPost, "/carts/add-items"))

		shelf, err := g.catalog.Shelf("offers")
		require.NoError(t, err)
		assert.Equal(t, 0, shelf.Quantity(5))
	})
}

func TestCatalogController_GetProduct(t *testing.T) {
	g := setupGateway(t)
	setupCatalogRoutes(g)
	g.api.reply(http.MethodGet, "/products/5", http.StatusOK, `{"status":true,"data":{"id":5,"title":"Algebra","real_price":"10"}}`)
	g.api.reply(http.MethodGet, "/products/6", http.StatusOK, `{"status":true,"data":null}`)

	w := g.do(http.MethodGet, "/catalog/products/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Algebra", decode(t, w)["title"])

	w = g.do(http.MethodGet, "/catalog/products/6", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
