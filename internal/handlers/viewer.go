package handlers

import (
	"net/http"

	"futaverse/internal/auth"
	"futaverse/internal/repository"
	"futaverse/internal/services"

	"github.com/gin-gonic/gin"
)

// resolveViewer turns the authenticated user into a viewer capability. On
// failure the response has already been written.
func resolveViewer(c *gin.Context, repo *repository.Repository) (services.Viewer, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	role, _ := auth.GetRole(c)

	viewer, err := services.ViewerForUser(c.Request.Context(), repo, userID, role)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return viewer, true
}

// alumnusProfileID resolves the caller to an alumnus profile, rejecting
// other roles
func alumnusProfileID(c *gin.Context, repo *repository.Repository) (uint, bool) {
	viewer, ok := resolveViewer(c, repo)
	if !ok {
		return 0, false
	}
	v, ok := viewer.(services.AlumnusViewer)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "alumnus account required"})
		return 0, false
	}
	return v.ProfileID, true
}

// studentProfileID resolves the caller to a student profile, rejecting
// other roles
func studentProfileID(c *gin.Context, repo *repository.Repository) (uint, bool) {
	viewer, ok := resolveViewer(c, repo)
	if !ok {
		return 0, false
	}
	v, ok := viewer.(services.StudentViewer)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "student account required"})
		return 0, false
	}
	return v.ProfileID, true
}
