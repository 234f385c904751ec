package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AbhignaKuchukulla/Issueflow/internal/realtime"
	"github.com/AbhignaKuchukulla/Issueflow/internal/service"
)

// InsightsHandler serves dashboards, the activity feed and presence.
type InsightsHandler struct {
	analytics *service.AnalyticsService
	hub       *realtime.Hub
}

// NewInsightsHandler constructs handler.
func NewInsightsHandler(analytics *service.AnalyticsService, hub *realtime.Hub) *InsightsHandler {
	return &InsightsHandler{analytics: analytics, hub: hub}
}

// Analytics GET /api/analytics.
func (h *InsightsHandler) Analytics(c *fiber.Ctx) error {
	return c.JSON(h.analytics.Summary(c.UserContext()))
}

// Activity GET /api/activity?limit=.
func (h *InsightsHandler) Activity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", service.RecentActivityLimit)
	if limit > 100 {
		limit = 100
	}
	return c.JSON(h.analytics.Activity(c.UserContext(), limit))
}

// Presence GET /api/presence.
func (h *InsightsHandler) Presence(c *fiber.Ctx) error {
	online := []realtime.PresenceEntry{}
	if h.hub != nil {
		online = h.hub.Online()
	}
	return c.JSON(fiber.Map{"online": online, "count": len(online)})
}
