package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskquest/internal/container"
	handlers "github.com/oksasatya/taskquest/internal/interface/http"
	"github.com/oksasatya/taskquest/internal/interface/middleware"
)

// UserModule wires account and session routes.
// Public: POST /add_user, POST /login
// Protected: POST /logout, /update_username, /update_password, /upload_profile_picture; GET /profile, /search_users
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public with rate limiting
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil) // 10 req/min per IP
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/add_user", signupLimiter, m.Handler.AddUser)
	rg.POST("/login", loginLimiter, m.Handler.Login)

	// Protected
	auth := rg.Group("/")
	auth.Use(m.Auth, middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUsername(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.POST("/update_username", m.Handler.UpdateUsername)
		auth.POST("/update_password", m.Handler.UpdatePassword)
		auth.POST("/upload_profile_picture", m.Handler.UploadProfilePicture)
		auth.GET("/profile", m.Handler.GetProfile)
		// Search users via Elasticsearch
		auth.GET("/search_users", m.Handler.Search)
	}
}
