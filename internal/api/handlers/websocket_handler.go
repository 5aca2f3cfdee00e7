package handlers

import (
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/soyrussmadrigal/seo-ai/internal/progress"
	"github.com/soyrussmadrigal/seo-ai/pkg/logger"
)

type WebSocketHandler struct {
	hub *progress.Hub
}

func NewWebSocketHandler(hub *progress.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// StreamProgress pushes classification-batch progress events to the
// connected client until it disconnects.
func (h *WebSocketHandler) StreamProgress(c *websocket.Conn) {
	logger.Info("Progress stream connected")

	events := h.hub.Subscribe()
	defer func() {
		h.hub.Unsubscribe(events)
		c.Close()
		logger.Info("Progress stream closed")
	}()

	// Reads only serve to detect the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteJSON(event); err != nil {
				logger.Warn("Failed to write progress event", zap.Error(err))
				return
			}
		}
	}
}
