package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
	"github.com/ikkim/edubooks-storefront/internal/middleware"
	"github.com/ikkim/edubooks-storefront/internal/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportArchiver keeps generated exports and hands out download links.
type ExportArchiver interface {
	Store(ctx context.Context, folder, filename, contentType string, data []byte) (*storage.StoredExport, error)
}

type OrderController struct {
	orderService service.OrderService
	archive      ExportArchiver
}

// NewOrderController builds the controller. archive may be nil, which turns
// ArchiveExport off.
func NewOrderController(orderService service.OrderService, archive ExportArchiver) *OrderController {
	return &OrderController{
		orderService: orderService,
		archive:      archive,
	}
}

func exportFilename() string {
	return fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
}

// GetOrders returns one page of order history
// GET /api/v1/orders?page=N
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	page, err := ctrl.orderService.Orders(c.Request.Context(), parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetOrderByID returns order details
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.Details(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":       order,
		"cancellable": order.Cancellable(),
	})
}

// Checkout places an order for the current carts
// POST /api/v1/orders/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := ctrl.orderService.Checkout(c.Request.Context(), req)
	if err != nil {
		log.Warn("Checkout failed", map[string]interface{}{
			"city_id":   req.CityID,
			"region_id": req.RegionID,
			"error":     err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": msg,
	})
}

// CancelOrder cancels a pending order
// POST /api/v1/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.orderService.Cancel(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": id,
		"status":   model.OrderStatusCancelled,
	})
}

// ExportOrders downloads the order history as xlsx
// GET /api/v1/orders/export
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	data, err := ctrl.orderService.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename()))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ArchiveExport uploads the order history export and returns a download link
// POST /api/v1/orders/export/archive
func (ctrl *OrderController) ArchiveExport(c *gin.Context) {
	if ctrl.archive == nil {
		respondError(c, storage.ErrArchiveDisabled)
		return
	}

	data, err := ctrl.orderService.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	stored, err := ctrl.archive.Store(c.Request.Context(), "orders", exportFilename(), xlsxContentType, data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stored)
}

// GetCities lists delivery cities
// GET /api/v1/orders/cities
func (ctrl *OrderController) GetCities(c *gin.Context) {
	cities, err := ctrl.orderService.Cities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

// GetRegions lists the regions of a city
// GET /api/v1/orders/cities/:city_id/regions
func (ctrl *OrderController) GetRegions(c *gin.Context) {
	cityID, ok := parseIDParam(c, "city_id")
	if !ok {
		return
	}

	regions, err := ctrl.orderService.Regions(c.Request.Context(), cityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"regions": regions})
}
