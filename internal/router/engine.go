package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskquest/internal/application"
	"github.com/oksasatya/taskquest/internal/container"
	"github.com/oksasatya/taskquest/internal/interface/middleware"
)

// NewEngine builds the gin engine with global middleware, static files and
// every module registered at the root path.
func NewEngine(svc *application.Service) *gin.Engine {
	cfg := container.GetConfig()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RealIP(), middleware.RequestIDMiddleware())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:  cfg.CORSOrigins(),
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	if cfg.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = cfg.MaxUploadBytes
	}
	if cfg.PhotoDriver == "local" {
		r.Static("/static", cfg.StaticDir)
	}

	reg := NewRegistry(r, "")
	InitModules(reg, svc)
	reg.RegisterAll()
	return r
}
