package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) AuthSignOut(c *gin.Context) {
	clearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{})
}
