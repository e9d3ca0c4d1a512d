package api

import (
	"net/http"

	"cascadia/chapter-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminStudentList returns the users an admin can act on: the whole platform
// for platform admins, their own chapter for chapter admins. An optional
// ?status= filter narrows to one verification status, which is what the
// pending-approvals view uses
func (a *API) AdminStudentList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actor := actorFrom(c)

	q := a.DB.Model(model.User{})

	switch actor.Role {
	case model.RolePlatformAdmin:
	case model.RoleChapterAdmin:
		q = q.Where("chapter_id = ?", actor.ChapterID)
	default:
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "You don't have permission to do that",
			"requestID": requestID,
		})
		return
	}

	if status := c.Query("status"); status != "" {
		switch model.VerificationStatus(status) {
		case model.VerificationPending, model.VerificationApproved, model.VerificationRejected:
			q = q.Where("verification_status = ?", status)
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid status filter",
				"requestID": requestID,
			})
			return
		}
	}

	var students []model.User

	err := q.
		Order("created_at desc").
		Find(&students).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list students", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"students": students,
	})
}
