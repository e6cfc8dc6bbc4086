package handlers

import (
	"net/http"

	"futaverse/internal/models"
	"futaverse/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// SignupStudent registers a student account and emails a verification code
func (h *AuthHandler) SignupStudent(c *gin.Context) {
	var req models.SignupStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.SignupStudent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, user)
}

// SignupAlumnus registers an alumnus account and emails a verification code
func (h *AuthHandler) SignupAlumnus(c *gin.Context) {
	var req models.SignupAlumnusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.SignupAlumnus(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, user)
}

// VerifyEmail consumes a verification code and activates the account
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"verified": true})
}

// ResendCode issues a fresh verification code
func (h *AuthHandler) ResendCode(c *gin.Context) {
	var req models.ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.ResendCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"sent": true})
}

// Login authenticates an account and returns a signed token
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// RequestPasswordReset emails a reset code
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"sent": true})
}

// ConfirmPasswordReset consumes a reset code and replaces the password
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req models.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.ConfirmPasswordReset(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"reset": true})
}
