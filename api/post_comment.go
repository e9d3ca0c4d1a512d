package api

import (
	"net/http"
	"strings"

	"cascadia/chapter-api/model"
	"cascadia/chapter-api/policy"
	"cascadia/chapter-api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type commentBody struct {
	Content string `json:"content"`
}

// CommentCreate adds a comment to an APPROVED or FILLED post
func (a *API) CommentCreate(c *gin.Context) {
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

	if d := policy.CanComment(actor, &post); !d.Allowed {
		abortDecision(c, requestID, d)
		return
	}

	var data commentBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	content := strings.TrimSpace(data.Content)

	if err := validators.CommentValidator(content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	commentID, err := gonanoid.New(12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate comment ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	comment := model.Comment{
		ID:       commentID,
		PostID:   post.ID,
		AuthorID: actor.ID,
		Content:  content,
	}

	if err := a.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create comment", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"comment": comment,
	})
}
