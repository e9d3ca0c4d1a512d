package api

import (
	"net/http"

	"cascadia/chapter-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChapterList is the public chapter directory shown on the sign-up form.
// Response is cached since chapters only change on redeploy
func (a *API) ChapterList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var chapters []model.Chapter

	err := a.DB.
		Order("name asc").
		Find(&chapters).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list chapters", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chapters": chapters,
	})
}
