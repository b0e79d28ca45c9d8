package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
	"github.com/ikkim/edubooks-storefront/internal/middleware"
	ws "github.com/ikkim/edubooks-storefront/internal/websocket"
)

type NotificationController struct {
	notifications service.NotificationService
	hub           *ws.Hub
	upgrader      websocket.Upgrader
}

// NewNotificationController wires subscriber "clear" commands to ClearAll.
// It must run before hub.Run.
func NewNotificationController(notifications service.NotificationService, hub *ws.Hub, allowedOrigins []string) *NotificationController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}

	hub.OnMessage = func(client *ws.Client, msg ws.ClientMessage) {
		if msg.Type == "clear" {
			notifications.ClearAll()
		}
	}

	return &NotificationController{
		notifications: notifications,
		hub:           hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins["*"] || origins[origin]
			},
		},
	}
}

// GetNotifications returns the recent notifications, oldest first
// GET /api/v1/notifications
func (ctrl *NotificationController) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": ctrl.notifications.Recent(),
	})
}

// ClearNotifications dismisses every notification
// DELETE /api/v1/notifications
func (ctrl *NotificationController) ClearNotifications(c *gin.Context) {
	ctrl.notifications.ClearAll()
	c.Status(http.StatusNoContent)
}

// WebSocketHandler subscribes a client to notification events
// GET /api/v1/notifications/ws
func (ctrl *NotificationController) WebSocketHandler(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn})
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket subscriber connected", map[string]interface{}{
		"client_id": client.ID,
	})
}
