package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskquest/internal/container"
	handlers "github.com/oksasatya/taskquest/internal/interface/http"
	"github.com/oksasatya/taskquest/internal/interface/middleware"
)

// BoardModule wires the leaderboard and comment routes.
// Public: GET /get_points, /get_my_points, /get_comments
// Protected: POST /add_comment
type BoardModule struct {
	Handler *handlers.BoardHandler
	Auth    gin.HandlerFunc
}

func NewBoardModule(h *handlers.BoardHandler, auth gin.HandlerFunc) *BoardModule {
	return &BoardModule{Handler: h, Auth: auth}
}

func (m *BoardModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/get_points", readLimiter, m.Handler.Points)
	rg.GET("/get_my_points", readLimiter, m.Handler.MyPoints)
	rg.GET("/get_comments", readLimiter, m.Handler.Comments)

	rg.POST("/add_comment", m.Auth,
		middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUsername(), nil),
		m.Handler.AddComment,
	)
}
