package api

import (
	"net/http"

	"cascadia/chapter-api/model"
	"cascadia/chapter-api/policy"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostDelete hard-deletes a post and its comments. Allowed to the author and
// platform admins from any status, there's no tombstone
func (a *API) PostDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actor := actorFrom(c)

	postID := c.Param("id")

	var post model.ResourcePost

	err := a.DB.
		Where("id = ?", postID).
		First(&post).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Post not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch post", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if d := policy.CanDeletePost(actor, &post); !d.Allowed {
		abortDecision(c, requestID, d)
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(model.Comment{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", post.ID).Delete(model.ResourcePost{}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete post", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Status(http.StatusOK)
}
