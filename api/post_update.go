package api

import (
	"net/http"
	"strings"
	"time"

	"cascadia/chapter-api/model"
	"cascadia/chapter-api/policy"
	"cascadia/chapter-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type postUpdateBody struct {
	Action string `json:"action"`

	// reject
	Reason string `json:"reason"`

	// fill
	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	ContactNotes string `json:"contactNotes"`
}

// PostUpdate dispatches the post state machine: approve and reject
// (moderation), fill (fulfillment) and close (retirement). Each transition
// is a conditional UPDATE keyed on the expected current status, so
// concurrent actions can't double-apply: the loser sees zero rows affected
// and gets a 400 back
func (a *API) PostUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actor := actorFrom(c)

	postID := c.Param("id")

	var data postUpdateBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

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

	// Visibility first. Someone who can't see the post must get the same
	// 404 they'd get if it didn't exist, never a 403
	if d := policy.CanViewPost(actor, &post); !d.Allowed {
		abortDecision(c, requestID, d)
		return
	}

	now := time.Now()

	var fromStatus model.PostStatus
	var updates map[string]any

	switch data.Action {
	case "approve":
		if d := policy.CanReviewPost(actor, &post); !d.Allowed {
			abortDecision(c, requestID, d)
			return
		}

		fromStatus = model.PostStatusPending
		updates = map[string]any{
			"status":         model.PostStatusApproved,
			"reviewed_by_id": actor.ID,
			"reviewed_at":    now,
		}

	case "reject":
		if d := policy.CanReviewPost(actor, &post); !d.Allowed {
			abortDecision(c, requestID, d)
			return
		}

		reason := strings.TrimSpace(data.Reason)
		if reason == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "A rejection reason is required",
				"requestID": requestID,
			})
			return
		}

		fromStatus = model.PostStatusPending
		updates = map[string]any{
			"status":           model.PostStatusRejected,
			"reviewed_by_id":   actor.ID,
			"reviewed_at":      now,
			"rejection_reason": reason,
		}

	case "fill":
		if d := policy.CanFillPost(actor, &post); !d.Allowed {
			abortDecision(c, requestID, d)
			return
		}

		contactName := strings.TrimSpace(data.ContactName)
		if contactName == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "A contact name is required",
				"requestID": requestID,
			})
			return
		}

		if err := validators.EmailValidator(data.ContactEmail); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		fromStatus = model.PostStatusApproved
		updates = map[string]any{
			"status":        model.PostStatusFilled,
			"filled_by_id":  actor.ID,
			"filled_at":     now,
			"contact_name":  contactName,
			"contact_email": data.ContactEmail,
		}

		if v := strings.TrimSpace(data.ContactPhone); v != "" {
			updates["contact_phone"] = v
		}

		if v := strings.TrimSpace(data.ContactNotes); v != "" {
			updates["contact_notes"] = v
		}

	case "close":
		if d := policy.CanClosePost(actor, &post); !d.Allowed {
			abortDecision(c, requestID, d)
			return
		}

		fromStatus = model.PostStatusApproved
		updates = map[string]any{
			"status": model.PostStatusClosed,
		}

	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Unknown action",
			"requestID": requestID,
		})
		return
	}

	res := a.DB.
		Model(model.ResourcePost{}).
		Where("id = ? AND status = ?", post.ID, fromStatus).
		Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update post", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	// Someone else got there first, the caller should re-fetch
	if res.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "This action isn't valid for the current status",
			"requestID": requestID,
		})
		return
	}

	err = a.DB.
		Where("id = ?", post.ID).
		First(&post).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to reload post", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post": post,
	})
}
