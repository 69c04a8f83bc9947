package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskquest/internal/container"
	handlers "github.com/oksasatya/taskquest/internal/interface/http"
	"github.com/oksasatya/taskquest/internal/interface/middleware"
)

// TaskModule wires the daily task routes. All routes require a bearer token.
type TaskModule struct {
	Handler *handlers.TaskHandler
	Auth    gin.HandlerFunc
}

func NewTaskModule(h *handlers.TaskHandler, auth gin.HandlerFunc) *TaskModule {
	return &TaskModule{Handler: h, Auth: auth}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/")
	g.Use(m.Auth, middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUsername(), nil))

	g.POST("/add_task", m.Handler.AddTask)
	g.GET("/get_my_tasks", m.Handler.MyTasks)
	g.GET("/get_task_history", m.Handler.History)
	g.POST("/update_task", m.Handler.UpdateTask)
	g.DELETE("/update_task", m.Handler.DeleteTask)
}
