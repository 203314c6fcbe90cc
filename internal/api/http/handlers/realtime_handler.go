package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/news-portal/internal/config"
	"github.com/spec-kit/news-portal/internal/realtime"
)

// RealtimeHandler upgrades connections onto the websocket hub. Anonymous
// clients may connect; broadcasts are public activity, not privileged data.
type RealtimeHandler struct {
	hub    *realtime.Hub
	cfg    config.RealtimeConfig
	logger *zap.Logger
}

// NewRealtimeHandler constructs handler.
func NewRealtimeHandler(hub *realtime.Hub, cfg config.RealtimeConfig, logger *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, cfg: cfg, logger: logger}
}

// Upgrade gates non-websocket requests before the upgrade handler runs.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve GET /ws.
func (h *RealtimeHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := realtime.NewClient(h.hub, conn, h.cfg.SendBufferSize, h.cfg.PingPeriod(), h.logger)
		client.Serve()
	})
}
