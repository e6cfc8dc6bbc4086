package handlers

import (
	"net/http"

	"futaverse/internal/auth"
	"futaverse/internal/models"
	"futaverse/internal/services"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	svc *services.EventService
}

func NewEventHandler(svc *services.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// CreateEvent creates an event with its tickets
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.svc.CreateEvent(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, event)
}

// ListEvents returns published upcoming events
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.svc.ListEvents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, events)
}

// ListMyEvents returns every event the caller created
func (h *EventHandler) ListMyEvents(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	events, err := h.svc.ListMyEvents(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, events)
}

// CancelEvent cancels an event owned by the caller
func (h *EventHandler) CancelEvent(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	event, err := h.svc.CancelEvent(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, event)
}

// GetEvent returns an event with its tickets
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	event, tickets, err := h.svc.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"event": event, "tickets": tickets})
}

// Register claims a ticket for the caller. Free tickets complete
// immediately; paid tickets return a checkout URL.
func (h *EventHandler) Register(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	ticketID, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.Register(c.Request.Context(), userID, ticketID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, result)
}

// ConfirmPayment completes a pending purchase by its payment reference
func (h *EventHandler) ConfirmPayment(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference is required"})
		return
	}

	purchase, err := h.svc.ConfirmPayment(c.Request.Context(), reference)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, purchase)
}

// ListMyTickets returns the caller's purchases
func (h *EventHandler) ListMyTickets(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	purchases, err := h.svc.ListMyTickets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, purchases)
}

// CheckIn marks a paid ticket as used at the door
func (h *EventHandler) CheckIn(c *gin.Context) {
	var req struct {
		Reference string `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchase, err := h.svc.CheckIn(c.Request.Context(), req.Reference)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, purchase)
}
