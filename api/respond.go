package api

import (
	"net/http"

	"cascadia/chapter-api/policy"
	"cascadia/chapter-api/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// actorFrom returns the resolved session actor, or nil for anonymous
// requests behind the optional auth middleware
func actorFrom(c *gin.Context) *policy.Actor {
	v, ok := c.Get("actor")
	if !ok {
		return nil
	}

	return v.(*policy.Actor)
}

func statusFor(r policy.Reason) int {
	switch r {
	case policy.ReasonUnauthenticated:
		return http.StatusUnauthorized
	case policy.ReasonNotFound:
		return http.StatusNotFound
	case policy.ReasonInvalidState:
		return http.StatusBadRequest
	default:
		return http.StatusForbidden
	}
}

func messageFor(r policy.Reason) string {
	switch r {
	case policy.ReasonUnauthenticated:
		return "Sign in required"
	case policy.ReasonForbiddenRole:
		return "You don't have permission to do that"
	case policy.ReasonChapterMismatch:
		return "You can only manage your own chapter"
	case policy.ReasonNotOwner:
		return "Only the author can do that"
	case policy.ReasonSelf:
		return "You can't perform this action on yourself"
	case policy.ReasonNotVerified:
		return "Your account hasn't been verified yet"
	case policy.ReasonInvalidState:
		return "This action isn't valid for the current status"
	case policy.ReasonNotFound:
		// Must match the absent-entity message exactly so a hidden post is
		// indistinguishable from a missing one
		return "Post not found"
	default:
		return "You don't have permission to do that"
	}
}

// abortDecision writes the transport response for a policy denial
func abortDecision(c *gin.Context, requestID string, d policy.Decision) {
	c.AbortWithStatusJSON(statusFor(d.Reason), gin.H{
		"error":     messageFor(d.Reason),
		"requestID": requestID,
	})
}

func secureCookies() bool {
	return viper.GetString("app.env") == "production"
}

func setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", token, int(security.TokenTTL.Seconds()), "/", "", secureCookies(), true)
}

func clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", "", -1, "/", "", secureCookies(), true)
}
