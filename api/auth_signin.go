package api

import (
	"net/http"
	"strings"

	"cascadia/chapter-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type signInBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthSignIn checks credentials and the verification gate. Unknown emails
// and wrong passwords get the same 401 so the endpoint can't be used to
// probe for registered addresses
func (a *API) AuthSignIn(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data signInBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" || data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email and password are required",
			"requestID": requestID,
		})
		return
	}

	var user model.User

	err := a.DB.
		Where("email = ?", strings.ToLower(strings.TrimSpace(data.Email))).
		First(&user).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid email or password",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ok, err := a.Argon.VerifyPasswd(data.Password, user.PasswordHash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid email or password",
			"requestID": requestID,
		})
		return
	}

	// Correct credentials aren't enough, the chapter has to approve the
	// account first. Rejected accounts are locked out the same way until
	// re-approved
	if user.VerificationStatus != model.VerificationApproved {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "Your account hasn't been approved yet",
			"requestID": requestID,
		})
		return
	}

	token, err := a.Tokens.Issue(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue session token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	setAuthCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
