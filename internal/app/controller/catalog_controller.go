package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
	"github.com/ikkim/edubooks-storefront/internal/middleware"
)

type CatalogController struct {
	catalog service.CatalogService
}

func NewCatalogController(catalog service.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

type QuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (ctrl *CatalogController) shelf(c *gin.Context) (*service.Shelf, bool) {
	shelf, err := ctrl.catalog.Shelf(service.Section(c.Param("section")))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return shelf, true
}

// GetHome returns the first page of every home section
// GET /api/v1/catalog/home
func (ctrl *CatalogController) GetHome(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.catalog.Home(c.Request.Context()))
}

// GetSection loads one page of a section. Load failures are reported inline
// in the returned state.
// GET /api/v1/catalog/sections/:section?page=N
func (ctrl *CatalogController) GetSection(c *gin.Context) {
	shelf, ok := ctrl.shelf(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, shelf.Load(c.Request.Context(), parsePage(c)))
}

// ChangeQuantity moves the pending quantity by delta, never below zero
// POST /api/v1/catalog/sections/:section/quantities/:product_id
func (ctrl *CatalogController) ChangeQuantity(c *gin.Context) {
	shelf, ok := ctrl.shelf(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}

	var req QuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": productID,
		"qty":        shelf.ChangeQuantity(productID, req.Delta),
	})
}

// AddToCart submits the pending quantity of a product
// POST /api/v1/catalog/sections/:section/add/:product_id
func (ctrl *CatalogController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	shelf, ok := ctrl.shelf(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}

	if err := shelf.AddToCart(c.Request.Context(), productID); err != nil {
		log.Debug("Shelf add refused", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shelf.State())
}

// GetProduct returns product details
// GET /api/v1/catalog/products/:id
func (ctrl *CatalogController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.catalog.Product(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
