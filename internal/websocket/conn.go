package websocket

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
)

const (
	eventWriteTimeout = 10 * time.Second

	// A subscriber that answers no ping within idleTimeout is dropped.
	idleTimeout       = 60 * time.Second
	keepAliveInterval = (idleTimeout * 9) / 10

	// Subscribers only send {"type":"clear"} style commands.
	maxCommandSize = 512
)

// Conn is the browser side of a notification subscription
type Conn struct {
	*websocket.Conn
}

func (c *Conn) extendIdle() error {
	return c.SetReadDeadline(time.Now().Add(idleTimeout))
}

func (c *Conn) writeFrame(messageType int, payload []byte) error {
	c.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
	return c.WriteMessage(messageType, payload)
}

// ReadPump hands subscriber commands to the hub and unregisters the client
// once the browser goes away.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxCommandSize)
	c.Conn.extendIdle()
	c.Conn.SetPongHandler(func(string) error { return c.Conn.extendIdle() })

	for {
		_, command, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Notification subscriber dropped", map[string]interface{}{
					"client_id": c.ID,
					"error":     err.Error(),
				})
			}
			return
		}
		c.Hub.HandleClientMessage(c, command)
	}
}

// WritePump pushes each notification event as its own text frame.
func (c *Client) WritePump() {
	keepAlive := time.NewTicker(keepAliveInterval)
	defer func() {
		keepAlive.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if !ok {
				// Hub stopped or dropped this subscriber.
				c.Conn.writeFrame(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "notifications closed"))
				return
			}
			if err := c.Conn.writeFrame(websocket.TextMessage, event); err != nil {
				logger.Warn("Failed to push notification event", map[string]interface{}{
					"client_id": c.ID,
					"error":     err.Error(),
				})
				return
			}

		case <-keepAlive.C:
			if err := c.Conn.writeFrame(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
