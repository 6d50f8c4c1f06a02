package handler

import (
	"asaan_shaadi/constants"
	"asaan_shaadi/helper"
	"asaan_shaadi/logger"
	"asaan_shaadi/model"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

const (
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// NotificationSocket streams booking events of the authenticated user until the client goes away.
func NotificationSocket(c *websocket.Conn) {
	user, ok := c.Locals(constants.LOCALS_USER).(*model.User)
	if !ok || user == nil {
		c.Close()
		return
	}

	events, unsubscribe := helper.Notifications.Subscribe(user.ID)
	defer unsubscribe()
	defer c.Close()

	log := logger.L().With(zap.String("userId", user.ID))
	log.Debug("notification socket opened")

	// the client only sends control frames; reading detects disconnects
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			log.Debug("notification socket closed")
			return
		case payload, ok := <-events:
			if !ok {
				return
			}
			c.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Debug("notification write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			c.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
