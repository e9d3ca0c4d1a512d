package api

import (
	"net/http"

	"cascadia/chapter-api/model"
	"cascadia/chapter-api/policy"
	"cascadia/chapter-api/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminStudentResetPassword overwrites a member's password with a random
// temporary one and returns the plaintext exactly once. Bumping the token
// version at the same time kicks the member's old sessions out immediately
func (a *API) AdminStudentResetPassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	actor := actorFrom(c)

	studentID := c.Param("id")

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

	if d := policy.CanResetMemberPassword(actor, &target); !d.Allowed {
		abortDecision(c, requestID, d)
		return
	}

	tempPassword, err := security.TempPassword()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate temporary password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	hash, err := a.Argon.GenerateFromPassword(tempPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash temporary password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.
		Model(model.User{}).
		Where("id = ?", target.ID).
		Updates(map[string]any{
			"password_hash": hash,
			"token_version": gorm.Expr("token_version + 1"),
		}).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to reset password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"temporaryPassword": tempPassword,
	})
}
