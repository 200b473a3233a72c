package http

import (
	"log/slog"
	"net/http"

	"github.com/gdugdh24/party-match-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/party-match-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

type Router struct {
	eventHandler        *handler.EventHandler
	ticketHandler       *handler.TicketHandler
	pairingHandler      *handler.PairingHandler
	notificationHandler *handler.NotificationHandler
	authMiddleware      *middleware.AuthMiddleware
	logger              *slog.Logger
}

func NewRouter(
	eventHandler *handler.EventHandler,
	ticketHandler *handler.TicketHandler,
	pairingHandler *handler.PairingHandler,
	notificationHandler *handler.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
	logger *slog.Logger,
) *Router {
	return &Router{
		eventHandler:        eventHandler,
		ticketHandler:       ticketHandler,
		pairingHandler:      pairingHandler,
		notificationHandler: notificationHandler,
		authMiddleware:      authMiddleware,
		logger:              logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(r.logger))

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	requireManager := r.authMiddleware.RequireRole(domain.RoleManager)

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler)

		// Guests register without an account
		v1.POST("/events/:event_id/guests", r.ticketHandler.JoinAsGuest)

		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			events := protected.Group("/events")
			{
				events.GET("", r.eventHandler.ListEvents)
				events.POST("", requireManager, r.eventHandler.CreateEvent)
				events.GET("/:event_id", r.eventHandler.GetEvent)
				events.GET("/:event_id/stats", requireManager, r.eventHandler.GetStats)

				events.POST("/:event_id/join", r.ticketHandler.Join)
				events.PUT("/:event_id/opt-in", r.ticketHandler.ToggleOptIn)
				events.GET("/:event_id/ticket", r.ticketHandler.GetTicket)
				events.POST("/:event_id/check-in", requireManager, r.ticketHandler.CheckIn)
				events.PUT("/:event_id/enrollments/:enrollment_id/status", requireManager, r.ticketHandler.UpdateStatus)

				events.GET("/:event_id/pairings", r.pairingHandler.ListForEvent)
			}

			protected.POST("/pairings/:pairing_id/respond", r.pairingHandler.Respond)
			protected.GET("/chats", r.pairingHandler.ListChats)
			protected.GET("/ws/notifications", r.notificationHandler.Subscribe)
		}
	}

	return router
}
