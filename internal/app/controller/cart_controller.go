package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
	"github.com/ikkim/edubooks-storefront/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Qty       int  `json:"qty" binding:"required,gt=0"`
}

type UpdateCartRequest struct {
	Qty int `json:"qty" binding:"required,gt=0"`
}

// GetCart re-fetches and returns the cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	// Fetch failures leave an empty cart, which is still a valid answer.
	_ = ctrl.cartService.Fetch(c.Request.Context())
	c.JSON(http.StatusOK, ctrl.cartService.Snapshot())
}

// AddToCart adds a product
// POST /api/v1/cart/items
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.cartService.Add(c.Request.Context(), req.ProductID, req.Qty); err != nil {
		log.Warn("Add to cart failed", map[string]interface{}{
			"product_id": req.ProductID,
			"qty":        req.Qty,
			"error":      err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ctrl.cartService.Snapshot())
}

// UpdateCartItem sets the quantity of a cart line
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCartRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.cartService.Update(c.Request.Context(), itemID, req.Qty); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ctrl.cartService.Snapshot())
}

// RemoveFromCart deletes a cart line
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.cartService.Remove(c.Request.Context(), itemID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ctrl.cartService.Snapshot())
}

// ClearCart deletes one server-side cart
// DELETE /api/v1/cart/carts/:cart_id
func (ctrl *CartController) ClearCart(c *gin.Context) {
	cartID, ok := parseIDParam(c, "cart_id")
	if !ok {
		return
	}

	if err := ctrl.cartService.ClearOne(c.Request.Context(), cartID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ctrl.cartService.Snapshot())
}

// ClearAll deletes every cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearAll(c *gin.Context) {
	if err := ctrl.cartService.ClearAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ctrl.cartService.Snapshot())
}
