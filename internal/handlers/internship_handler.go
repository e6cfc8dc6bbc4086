package handlers

import (
	"net/http"

	"futaverse/internal/models"
	"futaverse/internal/repository"
	"futaverse/internal/services"

	"github.com/gin-gonic/gin"
)

type InternshipHandler struct {
	svc  *services.InternshipService
	repo *repository.Repository
}

func NewInternshipHandler(svc *services.InternshipService, repo *repository.Repository) *InternshipHandler {
	return &InternshipHandler{svc: svc, repo: repo}
}

// CreateInternship creates a listing owned by the calling alumnus
func (h *InternshipHandler) CreateInternship(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}

	var req models.CreateInternshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	i, err := h.svc.CreateInternship(c.Request.Context(), alumnusID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, i)
}

// ListInternships returns the calling alumnus's listings
func (h *InternshipHandler) ListInternships(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}

	internships, err := h.svc.ListInternships(c.Request.Context(), alumnusID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, internships)
}

// GetInternship returns one listing
func (h *InternshipHandler) GetInternship(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	i, err := h.svc.GetInternship(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, i)
}

// UpdateInternship applies a partial update to a listing
func (h *InternshipHandler) UpdateInternship(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateInternshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	i, err := h.svc.UpdateInternship(c.Request.Context(), alumnusID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, i)
}

// ToggleActive flips whether the listing accepts new proposals
func (h *InternshipHandler) ToggleActive(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	i, err := h.svc.ToggleActive(c.Request.Context(), alumnusID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, i)
}

// DeleteInternship soft-deletes a listing
func (h *InternshipHandler) DeleteInternship(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteInternship(c.Request.Context(), alumnusID, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// CreateOffer offers a position on the listing to a student
func (h *InternshipHandler) CreateOffer(c *gin.Context) {
	alumnusID, ok := alumnusProfileID(c, h.repo)
	if !ok {
		return
	}
	internshipID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offer, err := h.svc.CreateOffer(c.Request.Context(), alumnusID, internshipID, req.StudentID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, offer)
}

// CreateApplication applies the calling student to the listing
func (h *InternshipHandler) CreateApplication(c *gin.Context) {
	studentID, ok := studentProfileID(c, h.repo)
	if !ok {
		return
	}
	internshipID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.ApplyInternshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.svc.CreateApplication(c.Request.Context(), studentID, internshipID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, app)
}

// ListOffers returns offers visible to the caller
func (h *InternshipHandler) ListOffers(c *gin.Context) {
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
func (h *InternshipHandler) ListApplications(c *gin.Context) {
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
func (h *InternshipHandler) AcceptOffer(c *gin.Context) {
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
func (h *InternshipHandler) RejectOffer(c *gin.Context) {
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
func (h *InternshipHandler) WithdrawOffer(c *gin.Context) {
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
func (h *InternshipHandler) AcceptApplication(c *gin.Context) {
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
func (h *InternshipHandler) RejectApplication(c *gin.Context) {
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
func (h *InternshipHandler) WithdrawApplication(c *gin.Context) {
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
func (h *InternshipHandler) ListEngagements(c *gin.Context) {
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
func (h *InternshipHandler) GetEngagement(c *gin.Context) {
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
func (h *InternshipHandler) CompleteEngagement(c *gin.Context) {
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
func (h *InternshipHandler) TerminateEngagement(c *gin.Context) {
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
