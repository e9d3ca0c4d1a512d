package api

import (
	"net/http"
	"strings"
	"time"

	"cascadia/chapter-api/model"
	"cascadia/chapter-api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type signUpBody struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	ChapterID string `json:"chapterId"`
}

// AuthSignUp registers a new user against a chapter. Emails on the chapter's
// admin allow-list become pre-approved chapter admins, everyone else starts
// as a PENDING member awaiting verification
func (a *API) AuthSignUp(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data signUpBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	email := strings.ToLower(strings.TrimSpace(data.Email))

	if err := validators.EmailValidator(email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.NameValidator(data.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if data.ChapterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No chapter provided",
			"requestID": requestID,
		})
		return
	}

	var chapter model.Chapter

	err := a.DB.
		Where("id = ? OR slug = ?", data.ChapterID, data.ChapterID).
		First(&chapter).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Unknown chapter",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up chapter", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var found bool

	r := a.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ?", email).
		Find(&found)
	if r.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if user is registered", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if found {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "This email is already registered. Please sign in or use a different email",
			"requestID": requestID,
		})
		return
	}

	hash, err := a.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := gonanoid.New(16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate user ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user := model.User{
		ID:           userID,
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(data.Name),
		Role:         model.RoleMember,
		ChapterID:    &chapter.ID,

		VerificationStatus: model.VerificationPending,
	}

	// The allow-list is how a chapter gets its first admin without anyone
	// being around yet to approve them
	if chapter.AdminEmails.Contains(email) {
		now := time.Now()
		user.Role = model.RoleChapterAdmin
		user.VerificationStatus = model.VerificationApproved
		user.VerifiedAt = &now
	}

	if err := a.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
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

	c.JSON(http.StatusCreated, gin.H{
		"user": user,
	})
}
