package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
)

type ShopController struct {
	shop service.ShopService
}

func NewShopController(shop service.ShopService) *ShopController {
	return &ShopController{shop: shop}
}

type PageRequest struct {
	Page int `json:"page" binding:"required,gt=0"`
}

// GetShop returns the current filter page state
// GET /api/v1/shop
func (ctrl *ShopController) GetShop(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.shop.State())
}

// OpenShop loads the filter options and the first page
// POST /api/v1/shop/open
func (ctrl *ShopController) OpenShop(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.shop.Open(c.Request.Context()))
}

// UpdateFilters applies filter changes; products follow after the debounce
// PUT /api/v1/shop/filters
func (ctrl *ShopController) UpdateFilters(c *gin.Context) {
	var req service.FilterUpdate
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, ctrl.shop.UpdateFilters(req))
}

// ChangePage loads another page right away
// PUT /api/v1/shop/page
func (ctrl *ShopController) ChangePage(c *gin.Context) {
	var req PageRequest
	if !bindJSON(c, &req) {
		return
	}

	state, changed := ctrl.shop.ChangePage(req.Page)
	c.JSON(http.StatusOK, gin.H{
		"changed": changed,
		"state":   state,
	})
}
