package handler

import (
	"net/http"

	"github.com/gdugdh24/party-match-backend/internal/usecase/event"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventUseCase *event.EventUseCase
}

func NewEventHandler(eventUseCase *event.EventUseCase) *EventHandler {
	return &EventHandler{eventUseCase: eventUseCase}
}

// ListEvents handles GET /events
// @Summary List upcoming events
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} domain.Event
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	var req event.ListEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "invalid pagination")
		return
	}

	events, err := h.eventUseCase.ListEvents(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "failed to list events")
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent handles GET /events/:event_id
// @Summary Get event
// @Tags events
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.Event
// @Failure 404 {object} ErrorResponse
// @Router /events/{event_id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := uuidParam(c, "event_id")
	if !ok {
		return
	}

	e, err := h.eventUseCase.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err, "failed to get event")
		return
	}

	c.JSON(http.StatusOK, e)
}

// CreateEvent handles POST /events
// @Summary Create event
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body event.CreateEventRequest true "Event data"
// @Success 201 {object} domain.Event
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req event.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	e, err := h.eventUseCase.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "failed to create event")
		return
	}

	c.JSON(http.StatusCreated, e)
}

// GetStats handles GET /events/:event_id/stats
// @Summary Event statistics
// @Tags events
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.EventStats
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /events/{event_id}/stats [get]
func (h *EventHandler) GetStats(c *gin.Context) {
	eventID, ok := uuidParam(c, "event_id")
	if !ok {
		return
	}

	stats, err := h.eventUseCase.Stats(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err, "failed to get stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
