package handler

import (
	"net/http"

	"github.com/gdugdh24/party-match-backend/internal/usecase/ticketing"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	ticketingUseCase *ticketing.TicketingUseCase
}

func NewTicketHandler(ticketingUseCase *ticketing.TicketingUseCase) *TicketHandler {
	return &TicketHandler{ticketingUseCase: ticketingUseCase}
}

// Join handles POST /events/:event_id/join
// @Summary Join an event
// @Tags tickets
// @Security BearerAuth
// @Produce json
// @Success 201 {object} domain.Enrollment
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /events/{event_id}/join [post]
func (h *TicketHandler) Join(c *gin.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "event_id")
	if !ok {
		return
	}

	enrollment, err := h.ticketingUseCase.Join(c.Request.Context(), eventID, profileID)
	if err != nil {
		respondError(c, err, "failed to join event")
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// JoinAsGuest handles POST /events/:event_id/guests
// @Summary Register a guest without a profile
// @Tags tickets
// @Accept json
// @Produce json
// @Param request body ticketing.GuestJoinRequest true "Guest data"
// @Success 201 {object} domain.Enrollment
// @Router /events/{event_id}/guests [post]
func (h *TicketHandler) JoinAsGuest(c *gin.Context) {
	eventID, ok := uuidParam(c, "event_id")
	if !ok {
		return
	}
	var req ticketing.GuestJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	enrollment, err := h.ticketingUseCase.JoinAsGuest(c.Request.Context(), eventID, &req)
	if err != nil {
		respondError(c, err, "failed to register guest")
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// ToggleOptIn handles PUT /events/:event_id/opt-in
// @Summary Opt in or out of matching
// @Tags tickets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ticketing.OptInRequest true "Opt-in flag"
// @Success 200 {object} domain.Enrollment
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /events/{event_id}/opt-in [put]
func (h *TicketHandler) ToggleOptIn(c *gin.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "event_id")
	if !ok {
		return
	}
	var req ticketing.OptInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	enrollment, err := h.ticketingUseCase.ToggleOptIn(c.Request.Context(), eventID, profileID, *req.OptIn)
	if err != nil {
		respondError(c, err, "failed to update opt-in")
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// GetTicket handles GET /events/:event_id/ticket
// @Summary Get my ticket
// @Tags tickets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.Enrollment
// @Failure 403 {object} ErrorResponse
// @Router /events/{event_id}/ticket [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "event_id")
	if !ok {
		return
	}

	enrollment, err := h.ticketingUseCase.GetTicket(c.Request.Context(), eventID, profileID)
	if err != nil {
		respondError(c, err, "failed to get ticket")
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// CheckIn handles POST /events/:event_id/check-in
// @Summary Redeem a ticket at the door
// @Tags tickets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ticketing.CheckInRequest true "Ticket code"
// @Success 200 {object} domain.Enrollment
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /events/{event_id}/check-in [post]
func (h *TicketHandler) CheckIn(c *gin.Context) {
	eventID, ok := uuidParam(c, "event_id")
	if !ok {
		return
	}
	var req ticketing.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	enrollment, err := h.ticketingUseCase.CheckIn(c.Request.Context(), eventID, req.Code)
	if err != nil {
		respondError(c, err, "failed to check in")
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// UpdateStatus handles PUT /events/:event_id/enrollments/:enrollment_id/status
// @Summary Set an entry status
// @Tags tickets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ticketing.UpdateStatusRequest true "Entry status"
// @Success 200 {object} domain.Enrollment
// @Router /events/{event_id}/enrollments/{enrollment_id}/status [put]
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	eventID, ok := uuidParam(c, "event_id")
	if !ok {
		return
	}
	enrollmentID, ok := uuidParam(c, "enrollment_id")
	if !ok {
		return
	}
	var req ticketing.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	enrollment, err := h.ticketingUseCase.UpdateEntryStatus(c.Request.Context(), eventID, enrollmentID, req.Status)
	if err != nil {
		respondError(c, err, "failed to update status")
		return
	}

	c.JSON(http.StatusOK, enrollment)
}
