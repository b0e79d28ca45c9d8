package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/edubooks-storefront/config"
	"github.com/ikkim/edubooks-storefront/internal/app/controller"
	"github.com/ikkim/edubooks-storefront/internal/middleware"
)

type Router struct {
	sessionController      *controller.SessionController
	cartController         *controller.CartController
	catalogController      *controller.CatalogController
	shopController         *controller.ShopController
	authController         *controller.AuthController
	orderController        *controller.OrderController
	settingsController     *controller.SettingsController
	notificationController *controller.NotificationController
	sessionMiddleware      *middleware.SessionMiddleware
	config                 *config.Config
}

func NewRouter(
	sessionController *controller.SessionController,
	cartController *controller.CartController,
	catalogController *controller.CatalogController,
	shopController *controller.ShopController,
	authController *controller.AuthController,
	orderController *controller.OrderController,
	settingsController *controller.SettingsController,
	notificationController *controller.NotificationController,
	sessionMiddleware *middleware.SessionMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		sessionController:      sessionController,
		cartController:         cartController,
		catalogController:      catalogController,
		shopController:         shopController,
		authController:         authController,
		orderController:        orderController,
		settingsController:     settingsController,
		notificationController: notificationController,
		sessionMiddleware:      sessionMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORS(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Storefront gateway is running",
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(r.sessionMiddleware.Language())
	{
		session := v1.Group("/session")
		{
			session.GET("", r.sessionController.GetSession)
			session.PUT("/language", r.sessionController.SetLanguage)
			session.PUT("/theme", r.sessionController.SetTheme)
			session.GET("/loader", r.sessionController.GetLoader)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddToCart)
			cart.PUT("/items/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/items/:id", r.cartController.RemoveFromCart)
			cart.DELETE("/carts/:cart_id", r.cartController.ClearCart)
			cart.DELETE("", r.cartController.ClearAll)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/home", r.catalogController.GetHome)
			catalog.GET("/sections/:section", r.catalogController.GetSection)
			catalog.POST("/sections/:section/quantities/:product_id", r.catalogController.ChangeQuantity)
			catalog.POST("/sections/:section/add/:product_id", r.catalogController.AddToCart)
			catalog.GET("/products/:id", r.catalogController.GetProduct)
		}

		shop := v1.Group("/shop")
		{
			shop.GET("", r.shopController.GetShop)
			shop.POST("/open", r.shopController.OpenShop)
			shop.PUT("/filters", r.shopController.UpdateFilters)
			shop.PUT("/page", r.shopController.ChangePage)
		}

		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/register", r.authController.Register)
			auth.POST("/verify-code", r.authController.VerifyCode)
			auth.POST("/send-code", r.authController.SendCode)
			auth.GET("/cooldown", r.authController.GetCooldown)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.GET("/profile", r.sessionMiddleware.RequireLogin(), r.authController.GetProfile)
			auth.POST("/profile", r.sessionMiddleware.RequireLogin(), r.authController.UpdateProfile)
			auth.PUT("/password", r.sessionMiddleware.RequireLogin(), r.authController.ChangePassword)
			auth.POST("/logout", r.authController.Logout)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("/cities", r.orderController.GetCities)
			orders.GET("/cities/:city_id/regions", r.orderController.GetRegions)

			authed := orders.Group("")
			authed.Use(r.sessionMiddleware.RequireLogin())
			{
				authed.GET("", r.orderController.GetOrders)
				authed.GET("/export", r.orderController.ExportOrders)
				authed.POST("/export/archive", r.orderController.ArchiveExport)
				authed.GET("/:id", r.orderController.GetOrderByID)
				authed.POST("/checkout", r.orderController.Checkout)
				authed.POST("/:id/cancel", r.orderController.CancelOrder)
			}
		}

		settings := v1.Group("/settings")
		{
			settings.GET("/:page", r.settingsController.GetPage)
			settings.GET("/sections/:grade_id", r.settingsController.GetSections)
			settings.GET("/regions/:city_id", r.settingsController.GetRegions)
		}

		v1.POST("/contact", r.settingsController.SendContact)

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.DELETE("", r.notificationController.ClearNotifications)
			notifications.GET("/ws", r.notificationController.WebSocketHandler)
		}
	}

	return router
}
