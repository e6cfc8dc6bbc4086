package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"futaverse/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError translates a service error into an HTTP response. Unexpected
// errors are logged and flattened to a generic 500.
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		c.JSON(svcErr.HTTPStatus(), gin.H{
			"error": svcErr.Message,
			"code":  svcErr.Code,
		})
		return
	}
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// paramID parses a numeric path parameter, writing the error response itself
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
