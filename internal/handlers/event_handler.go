package handlers

import (
	"net/http"

	"github.com/crewlink/backend/internal/models"
	"github.com/crewlink/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// EventHandler ingests change events from the domain event source.
type EventHandler struct {
	engine *services.Engine
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(engine *services.Engine) *EventHandler {
	return &EventHandler{engine: engine}
}

// RegisterEventRoutes registers event ingest routes
func (h *EventHandler) RegisterEventRoutes(g *echo.Group) {
	g.POST("/events", h.HandleEvent)
}

// HandleEvent accepts one change event and processes it to completion.
// Discarded events still return 200: the source must not redeliver
// them. A 500 signals a failed invocation the source may retry.
func (h *EventHandler) HandleEvent(c echo.Context) error {
	var event models.ChangeEvent
	if err := c.Bind(&event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid event payload")
	}
	if err := c.Validate(&event); err != nil {
		return err
	}

	if err := h.engine.Process(c.Request().Context(), &event); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
