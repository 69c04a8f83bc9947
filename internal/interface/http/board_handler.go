package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskquest/internal/application"
	"github.com/oksasatya/taskquest/pkg/response"
	"github.com/oksasatya/taskquest/pkg/validation"
)

// BoardHandler serves the shared views: leaderboard and comments.
type BoardHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewBoardHandler(svc *application.Service, logger *logrus.Logger) *BoardHandler {
	return &BoardHandler{Svc: svc, Logger: logger}
}

type addCommentRequest struct {
	Text string `json:"text" binding:"required,text"`
}

func (h *BoardHandler) Points(c *gin.Context) {
	board, err := h.Svc.Leaderboard(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, board, "leaderboard", nil)
}

// MyPoints returns every user's points without names.
func (h *BoardHandler) MyPoints(c *gin.Context) {
	points, err := h.Svc.PointsOnly(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, points, "points", nil)
}

func (h *BoardHandler) Comments(c *gin.Context) {
	comments, err := h.Svc.ListComments(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, comments, "comments", nil)
}

func (h *BoardHandler) AddComment(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	comment, err := h.Svc.PostComment(c.Request.Context(), c.GetString("username"), req.Text)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, comment, "Comment added successfully", nil)
}
