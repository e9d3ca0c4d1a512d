// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"cascadia/chapter-api/db"
	"cascadia/chapter-api/middleware"
	"cascadia/chapter-api/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Argon  *security.ArgonHash
	Tokens *security.TokenService
}

func NewRouter() (*API, error) {
	a := &API{
		Argon:  security.NewArgon(),
		Tokens: security.NewTokenService(viper.GetString("jwt.secret")),
	}

	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = database

	makeLogger()

	if err := db.Seed(database, a.Argon); err != nil {
		return nil, fmt.Errorf("failed to seed database, %w", err)
	}

	a.Router = a.routes()
	return a, nil
}

func (a *API) routes() *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	auth := middleware.NewAuthMiddleware(a.DB, a.Tokens)
	authOptional := middleware.NewOptionalAuthMiddleware(a.DB, a.Tokens)

	main := router.Group("/api", middleware.BodySizeLimiter(1<<20))
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates the session cookie
		main.HEAD("/validate", auth, a.Validate)

		// GET /api/chapters		-> Public chapter directory
		main.GET("/chapters", cacheFor(30), a.ChapterList)
	}

	authG := main.Group("/auth")
	{
		// POST /api/auth/sign-up	-> Registers a new member or chapter admin
		authG.POST("/sign-up", a.AuthSignUp)

		// POST /api/auth/sign-in	-> Signs in an approved user, sets the session cookie
		authG.POST("/sign-in", a.AuthSignIn)

		// POST /api/auth/sign-out	-> Clears the session cookie
		authG.POST("/sign-out", a.AuthSignOut)

		// GET /api/auth/me		-> Current session claims, or null
		authG.GET("/me", authOptional, a.AuthMe)

		// POST /api/auth/change-password -> Rehashes and voids old sessions
		authG.POST("/change-password", auth, a.AuthChangePassword)
	}

	admin := main.Group("/admin", auth)
	{
		// GET /api/admin/students	-> Lists members in the admin's scope
		admin.GET("/students", a.AdminStudentList)

		// POST /api/admin/students/:id/verify -> Approves or rejects a member
		admin.POST("/students/:id/verify", a.AdminStudentVerify)

		// POST /api/admin/students/:id/reset-password -> Hands out a temp password
		admin.POST("/students/:id/reset-password", a.AdminStudentResetPassword)
	}

	posts := main.Group("/posts")
	{
		// GET /api/posts		-> Lists posts visible to the caller
		posts.GET("", authOptional, a.PostList)

		// POST /api/posts		-> Creates a PENDING post
		posts.POST("", auth, a.PostCreate)

		// GET /api/posts/:id		-> Fetches a post with its comments
		posts.GET("/:id", authOptional, a.PostFetch)

		// PATCH /api/posts/:id		-> approve/reject/fill/close transitions
		posts.PATCH("/:id", auth, a.PostUpdate)

		// DELETE /api/posts/:id	-> Hard-deletes a post
		posts.DELETE("/:id", auth, a.PostDelete)

		// POST /api/posts/:id/comments	-> Comments on an APPROVED/FILLED post
		posts.POST("/:id/comments", auth, a.CommentCreate)
	}

	return router
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
