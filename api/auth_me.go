package api

import (
	"net/http"

	"cascadia/chapter-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMe returns the signed-in user, or null for anonymous callers. Reads
// the row fresh rather than echoing token claims so a just-approved user
// sees their new status without re-authenticating
func (a *API) AuthMe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	actor := actorFrom(c)
	if actor == nil {
		c.JSON(http.StatusOK, gin.H{
			"user": nil,
		})
		return
	}

	var user model.User

	err := a.DB.
		Where("id = ?", actor.ID).
		First(&user).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch current user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
