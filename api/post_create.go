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
)

type postCreateBody struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// PostCreate submits a new request or offering. Every post starts PENDING
// and stays invisible to the community until a moderator approves it
func (a *API) PostCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actor := actorFrom(c)

	if d := policy.CanCreatePost(actor); !d.Allowed {
		abortDecision(c, requestID, d)
		return
	}

	// Posts inherit the author's chapter. Platform admins aren't in one, so
	// they can't author posts
	if actor.ChapterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Your account isn't linked to a chapter",
			"requestID": requestID,
		})
		return
	}

	var data postCreateBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	for _, validate := range []error{
		validators.TitleValidator(data.Title),
		validators.DescriptionValidator(data.Description),
		validators.PostTypeValidator(data.Type),
		validators.CategoryValidator(data.Category),
		validators.TagsValidator(data.Tags),
	} {
		if validate != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     validate.Error(),
				"requestID": requestID,
			})
			return
		}
	}

	postID, err := gonanoid.New(12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate post ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	post := model.ResourcePost{
		ID:          postID,
		Title:       strings.TrimSpace(data.Title),
		Description: strings.TrimSpace(data.Description),
		Type:        model.PostType(data.Type),
		Category:    data.Category,
		Tags:        model.StringSlice(data.Tags),
		Status:      model.PostStatusPending,
		AuthorID:    actor.ID,
		ChapterID:   actor.ChapterID,
	}

	if err := a.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create post", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"post": post,
	})
}
