package api

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"cascadia/chapter-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var validLimits = []int{10, 20, 50, 100}

var publicStatuses = []model.PostStatus{model.PostStatusApproved, model.PostStatusFilled}

// PostList returns the posts visible to the caller, newest first. Anonymous
// callers and plain members see APPROVED/FILLED posts plus their own;
// chapter admins additionally see everything in their chapter; platform
// admins see it all. Filters: status, type, category, chapter, tag, q
func (a *API) PostList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actor := actorFrom(c)

	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || !slices.Contains(validLimits, limit) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid limit provided",
			"requestID": requestID,
		})
		return
	}

	pageStr := c.DefaultQuery("page", "0")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid page provided",
			"requestID": requestID,
		})
		return
	}

	q := a.DB.Model(model.ResourcePost{})

	// Visibility scope, mirroring policy.CanViewPost in SQL
	switch {
	case actor == nil:
		q = q.Where("status IN ?", publicStatuses)
	case actor.Role == model.RolePlatformAdmin:
	case actor.Role == model.RoleChapterAdmin:
		q = q.Where("status IN ? OR author_id = ? OR chapter_id = ?", publicStatuses, actor.ID, actor.ChapterID)
	default:
		q = q.Where("status IN ? OR author_id = ?", publicStatuses, actor.ID)
	}

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", strings.ToUpper(status))
	}

	if postType := c.Query("type"); postType != "" {
		q = q.Where("type = ?", strings.ToUpper(postType))
	}

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	if chapter := c.Query("chapter"); chapter != "" {
		q = q.Where("chapter_id = ?", chapter)
	}

	if tag := c.Query("tag"); tag != "" {
		// Tags are stored comma-joined, pad both sides so "art" doesn't
		// match "cart"
		q = q.Where("',' || tags || ',' LIKE ?", "%,"+tag+",%")
	}

	if search := strings.ToLower(c.Query("q")); search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+search+"%")
	}

	var results []model.ResourcePost

	err = q.
		Order("created_at desc").
		Offset(page * limit).
		Limit(limit).
		Find(&results).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list posts", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": results,
	})
}
