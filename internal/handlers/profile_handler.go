package handlers

import (
	"net/http"

	"futaverse/internal/auth"
	"futaverse/internal/models"
	"futaverse/internal/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc *services.ProfileService
}

func NewProfileHandler(svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// GetAlumniProfile returns the caller's alumni profile
func (h *ProfileHandler) GetAlumniProfile(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	profile, err := h.svc.GetAlumniProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, profile)
}

// UpdateAlumniProfile updates the caller's alumni profile
func (h *ProfileHandler) UpdateAlumniProfile(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var update models.AlumniProfile
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.svc.UpdateAlumniProfile(c.Request.Context(), userID, &update)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, profile)
}

// GetStudentProfile returns the caller's student profile
func (h *ProfileHandler) GetStudentProfile(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	profile, err := h.svc.GetStudentProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, profile)
}

// UpdateStudentProfile updates the caller's student profile
func (h *ProfileHandler) UpdateStudentProfile(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var update models.StudentProfile
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.svc.UpdateStudentProfile(c.Request.Context(), userID, &update)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, profile)
}

// SaveResume stores the caller's resume reference
func (h *ProfileHandler) SaveResume(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req struct {
		ResumeURL string `json:"resume_url" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resume, err := h.svc.SaveResume(c.Request.Context(), userID, req.ResumeURL)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resume)
}
