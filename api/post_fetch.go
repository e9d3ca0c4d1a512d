package api

import (
	"net/http"

	"cascadia/chapter-api/model"
	"cascadia/chapter-api/policy"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostFetch returns a single post with its comments, subject to the
// visibility rule: hidden posts 404 exactly like missing ones
func (a *API) PostFetch(c *gin.Context) {
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

	if d := policy.CanViewPost(actor, &post); !d.Allowed {
		abortDecision(c, requestID, d)
		return
	}

	var comments []model.Comment

	err = a.DB.
		Where("post_id = ?", post.ID).
		Order("created_at asc").
		Find(&comments).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch comments", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"comments": comments,
	})
}
