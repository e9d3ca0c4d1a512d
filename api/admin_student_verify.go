package api

import (
	"net/http"
	"time"

	"cascadia/chapter-api/model"
	"cascadia/chapter-api/policy"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type verifyBody struct {
	Approve *bool `json:"approve"`
}

// AdminStudentVerify applies a verification verdict to a member of the
// admin's chapter. The status change is conditioned on the current status in
// the UPDATE itself, so a concurrent verdict loses with zero rows affected
// instead of silently overwriting
func (a *API) AdminStudentVerify(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actor := actorFrom(c)

	studentID := c.Param("id")

	var data verifyBody
	if err := c.ShouldBind(&data); err != nil || data.Approve == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "The approve field is required",
			"requestID": requestID,
		})
		return
	}

	var target model.User

	err := a.DB.
		Where("id = ?", studentID).
		First(&target).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Student not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch student", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if d := policy.CanVerifyMember(actor, &target); !d.Allowed {
		abortDecision(c, requestID, d)
		return
	}

	newStatus := model.VerificationRejected
	if *data.Approve {
		newStatus = model.VerificationApproved
	}

	now := time.Now()

	res := a.DB.
		Model(model.User{}).
		Where("id = ? AND verification_status IN ?", target.ID, policy.VerificationSources(*data.Approve)).
		Updates(map[string]any{
			"verification_status": newStatus,
			"verified_by_id":      actor.ID,
			"verified_at":         now,
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update verification status", zap.Error(res.Error), zap.String("requestID", requestID))
		return
	}

	if res.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "This verdict isn't valid for the student's current status",
			"requestID": requestID,
		})
		return
	}

	err = a.DB.
		Where("id = ?", target.ID).
		First(&target).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to reload student", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": target,
	})
}
