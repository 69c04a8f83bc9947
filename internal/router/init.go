package router

import (
	"github.com/oksasatya/taskquest/internal/application"
	"github.com/oksasatya/taskquest/internal/container"
	"github.com/oksasatya/taskquest/internal/infrastructure/docstore"
	"github.com/oksasatya/taskquest/internal/infrastructure/search"
	handlers "github.com/oksasatya/taskquest/internal/interface/http"
	"github.com/oksasatya/taskquest/internal/interface/middleware"
	"github.com/oksasatya/taskquest/internal/router/modules"
)

// BuildService assembles the application service from the container.
func BuildService() *application.Service {
	cfg := container.GetConfig()

	var index application.UserIndex
	if es := container.GetES(); es != nil {
		index = search.NewUserIndex(es, cfg.ESUsersIndex)
	}

	return application.NewService(
		docstore.NewDirectory(container.GetBlobStore()),
		container.GetPhotoStore(),
		container.GetTokens(),
		index,
		container.GetLogger(),
		application.Options{
			SessionTTL:     cfg.SessionTTL,
			MaxTasksPerDay: cfg.MaxTasksPerDay,
			TaskPoints:     cfg.TaskPoints,
			CommentTTL:     cfg.CommentTTL,
			Location:       cfg.Location(),
		},
	)
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, svc *application.Service) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	auth := middleware.Auth(svc)

	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc, logger, cfg.MaxUploadBytes), auth))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(svc, logger), auth))
	r.Add(modules.NewBoardModule(handlers.NewBoardHandler(svc, logger), auth))
	r.Add(modules.NewDebugModule(cfg.DebugMetricsEnabled))
}
