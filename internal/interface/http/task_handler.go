package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskquest/internal/application"
	"github.com/oksasatya/taskquest/pkg/response"
	"github.com/oksasatya/taskquest/pkg/validation"
)

type TaskHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.Service, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type addTaskRequest struct {
	TaskText string `json:"task_text" binding:"required,text"`
}

type updateTaskRequest struct {
	TaskID    string `json:"task_id" binding:"required"`
	Completed bool   `json:"completed"`
}

type deleteTaskRequest struct {
	TaskID string `json:"task_id" binding:"required"`
}

func (h *TaskHandler) AddTask(c *gin.Context) {
	var req addTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	task, err := h.Svc.AddTask(c.Request.Context(), c.GetString("username"), req.TaskText)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, task, "Task added successfully", nil)
}

func (h *TaskHandler) MyTasks(c *gin.Context) {
	tasks, err := h.Svc.ListToday(c.Request.Context(), c.GetString("username"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, tasks, "today's tasks", nil)
}

func (h *TaskHandler) History(c *gin.Context) {
	hist, err := h.Svc.History(c.Request.Context(), c.GetString("username"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hist, "completed tasks per day", nil)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.UpdateTask(c.Request.Context(), c.GetString("username"), req.TaskID, req.Completed)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	msg := "Task updated successfully"
	if !res.Changed {
		msg = "Task status unchanged."
	}
	response.Success(c, http.StatusOK, gin.H{"points": res.Points}, msg, nil)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	var req deleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	points, err := h.Svc.DeleteTask(c.Request.Context(), c.GetString("username"), req.TaskID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"points": points}, "Task deleted successfully", nil)
}

