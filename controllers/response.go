package controllers

import (
	"log"
	"net/http"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/services"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
	"github.com/gin-gonic/gin"
)

// respondData writes the {data: T} success envelope.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

// respondPage writes a paginated listing envelope.
func respondPage(c *gin.Context, data interface{}, paging services.Paging) {
	c.JSON(http.StatusOK, gin.H{"data": data, "paging": paging})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"data": gin.H{"message": message}})
}

// respondError maps domain errors to {message, errors:[...]} with the
// taxonomy status; anything unexpected becomes an opaque 500.
func respondError(c *gin.Context, err error) {
	if appErr, ok := utils.AsAppError(err); ok {
		c.JSON(appErr.Status, appErr)
		return
	}
	log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

// respondBindingError wraps gin binding failures as validation errors.
func respondBindingError(c *gin.Context, err error) {
	respondError(c, utils.NewValidationError("Invalid request body", err.Error()))
}

// currentActor reads the authenticated caller from the context set by
// the auth middleware.
func currentActor(c *gin.Context) services.Actor {
	actor := services.Actor{}
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			actor.UserID = id
		}
	}
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(models.Role); ok {
			actor.Role = role
		}
	}
	return actor
}
