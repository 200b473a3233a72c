package handler

import (
	"net/http"

	"github.com/gdugdh24/party-match-backend/internal/usecase/pairing"
	"github.com/gin-gonic/gin"
)

type PairingHandler struct {
	pairingUseCase *pairing.PairingUseCase
}

func NewPairingHandler(pairingUseCase *pairing.PairingUseCase) *PairingHandler {
	return &PairingHandler{pairingUseCase: pairingUseCase}
}

// ListForEvent handles GET /events/:event_id/pairings
// @Summary My pairings in an event
// @Tags pairings
// @Security BearerAuth
// @Produce json
// @Success 200 {array} pairing.PairingView
// @Router /events/{event_id}/pairings [get]
func (h *PairingHandler) ListForEvent(c *gin.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "event_id")
	if !ok {
		return
	}

	views, err := h.pairingUseCase.ListForEvent(c.Request.Context(), eventID, profileID)
	if err != nil {
		respondError(c, err, "failed to list pairings")
		return
	}

	c.JSON(http.StatusOK, views)
}

// Respond handles POST /pairings/:pairing_id/respond
// @Summary Accept or reject a pairing
// @Tags pairings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body pairing.RespondRequest true "Action"
// @Success 200 {object} domain.Pairing
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /pairings/{pairing_id}/respond [post]
func (h *PairingHandler) Respond(c *gin.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}
	pairingID, ok := uuidParam(c, "pairing_id")
	if !ok {
		return
	}
	var req pairing.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "action must be accept or reject")
		return
	}

	p, err := h.pairingUseCase.Respond(c.Request.Context(), pairingID, profileID, req.Action)
	if err != nil {
		respondError(c, err, "failed to record response")
		return
	}

	c.JSON(http.StatusOK, p)
}

// ListChats handles GET /chats
// @Summary My mutual matches
// @Tags pairings
// @Security BearerAuth
// @Produce json
// @Success 200 {array} pairing.PairingView
// @Router /chats [get]
func (h *PairingHandler) ListChats(c *gin.Context) {
	profileID, ok := currentProfile(c)
	if !ok {
		return
	}

	chats, err := h.pairingUseCase.ListChats(c.Request.Context(), profileID)
	if err != nil {
		respondError(c, err, "failed to list chats")
		return
	}

	c.JSON(http.StatusOK, chats)
}
