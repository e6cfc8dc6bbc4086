package handlers

import (
	"net/http"

	"futaverse/internal/models"
	"futaverse/internal/repository"
	"futaverse/internal/services"

	"github.com/gin-gonic/gin"
)

type MentorshipHandler struct {
	svc  *services.MentorshipService
	repo *repository.Repository
}

func NewMentorshipHandler(svc *services.MentorshipService, repo *repository.Repository) *MentorshipHandler {
	return &MentorshipHandler{svc: svc, repo: repo}
}

// CreateMentorship creates a listing owned by the calling alumnus
func (h *MentorshipHandler) CreateMentorship(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}

	var req models.CreateMentorshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.svc.CreateMentorship(c.Request.Context(), alumnusID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, m)
}

// ListMentorships returns the calling alumnus's listings
func (h *MentorshipHandler) ListMentorships(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}

	mentorships, err := h.svc.ListMentorships(c.Request.Context(), alumnusID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, mentorships)
}

// GetMentorship returns one listing
func (h *MentorshipHandler) GetMentorship(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	m, err := h.svc.GetMentorship(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, m)
}

// UpdateMentorship applies a partial update to a listing
func (h *MentorshipHandler) UpdateMentorship(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateMentorshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.svc.UpdateMentorship(c.Request.Context(), alumnusID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, m)
}

// ToggleActive flips whether the listing accepts new proposals
func (h *MentorshipHandler) ToggleActive(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	m, err := h.svc.ToggleActive(c.Request.Context(), alumnusID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, m)
}

// DeleteMentorship soft-deletes a listing
func (h *MentorshipHandler) DeleteMentorship(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteMentorship(c.Request.Context(), alumnusID, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// CreateOffer offers a slot on the listing to a student
func (h *MentorshipHandler) CreateOffer(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	mentorshipID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offer, err := h.svc.CreateOffer(c.Request.Context(), alumnusID, mentorshipID, req.StudentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, offer)
}

// CreateApplication applies the calling student to the listing
func (h *MentorshipHandler) CreateApplication(c *gin.Context) {
	studentID, ok := studentProfileID(c, h.repo)
	if !ok {
		return
	}
	mentorshipID, ok := paramID(c, "id")
	if !ok {
		return
	}

	app, err := h.svc.CreateApplication(c.Request.Context(), studentID, mentorshipID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, app)
}

// ListOffers returns offers visible to the caller
func (h *MentorshipHandler) ListOffers(c *gin.Context) {
	viewer, ok := resolveViewer(c, h.repo)
	if !ok {
		return
	}

	offers, err := h.svc.ListOffers(c.Request.Context(), viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, offers)
}

// ListApplications returns applications visible to the caller
func (h *MentorshipHandler) ListApplications(c *gin.Context) {
	viewer, ok := resolveViewer(c, h.repo)
	if !ok {
		return
	}

	apps, err := h.svc.ListApplications(c.Request.Context(), viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, apps)
}

// AcceptOffer is the student accepting an offer addressed to them
func (h *MentorshipHandler) AcceptOffer(c *gin.Context) {
	studentID, ok := studentProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	engagement, err := h.svc.AcceptOffer(c.Request.Context(), studentID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, engagement)
}

// RejectOffer is the student declining an offer addressed to them
func (h *MentorshipHandler) RejectOffer(c *gin.Context) {
	studentID, ok := studentProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.RejectOffer(c.Request.Context(), studentID, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"rejected": true})
}

// WithdrawOffer is the alumnus retracting a pending offer
func (h *MentorshipHandler) WithdrawOffer(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.WithdrawOffer(c.Request.Context(), alumnusID, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"withdrawn": true})
}

// AcceptApplication is the alumnus accepting a student's application
func (h *MentorshipHandler) AcceptApplication(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	engagement, err := h.svc.AcceptApplication(c.Request.Context(), alumnusID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, engagement)
}

// RejectApplication is the alumnus declining a student's application
func (h *MentorshipHandler) RejectApplication(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.RejectApplication(c.Request.Context(), alumnusID, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"rejected": true})
}

// WithdrawApplication is the student retracting a pending application
func (h *MentorshipHandler) WithdrawApplication(c *gin.Context) {
	studentID, ok := studentProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.WithdrawApplication(c.Request.Context(), studentID, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"withdrawn": true})
}

// ListEngagements returns the calling alumnus's engagements
func (h *MentorshipHandler) ListEngagements(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}

	engagements, err := h.svc.ListEngagements(c.Request.Context(), alumnusID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, engagements)
}

// GetEngagement returns an engagement together with the offer or application
// it originated from
func (h *MentorshipHandler) GetEngagement(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	engagement, err := h.svc.GetEngagement(c.Request.Context(), alumnusID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	source, err := h.svc.EngagementSource(c.Request.Context(), engagement)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"engagement": engagement, "source": source})
}

// CompleteEngagement marks an engagement completed
func (h *MentorshipHandler) CompleteEngagement(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.CompleteEngagement(c.Request.Context(), alumnusID, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"completed": true})
}

// TerminateEngagement marks an engagement terminated
func (h *MentorshipHandler) TerminateEngagement(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.TerminateEngagement(c.Request.Context(), alumnusID, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"terminated": true})
}
