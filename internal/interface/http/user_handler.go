package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskquest/internal/application"
	"github.com/oksasatya/taskquest/pkg/response"
	"github.com/oksasatya/taskquest/pkg/validation"
)

type UserHandler struct {
	Svc            *application.Service
	Logger         *logrus.Logger
	MaxUploadBytes int64
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger, maxUploadBytes int64) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateUsernameRequest struct {
	NewUsername     string `json:"new_username" binding:"required"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

type updatePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

func (h *UserHandler) AddUser(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	token, err := h.Svc.CreateUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"token": token}, "User created successfully", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": res.Token, "profile_photo": res.ProfilePhoto}, "Login successful", nil)
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString("username"), c.GetString("token")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Logged out successfully", nil)
}

func (h *UserHandler) UpdateUsername(c *gin.Context) {
	var req updateUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.RenameUser(c.Request.Context(), c.GetString("username"), req.NewUsername, req.CurrentPassword)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": res.Token, "username": res.Username}, "Username updated successfully", nil)
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	token, err := h.Svc.ChangePassword(c.Request.Context(), c.GetString("username"), req.NewPassword)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token}, "Password updated successfully", nil)
}

func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	fh, err := c.FormFile("profile_pic")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "No file part", nil)
		return
	}
	if fh.Filename == "" {
		response.Error[any](c, http.StatusBadRequest, "No selected file", nil)
		return
	}
	if h.MaxUploadBytes > 0 && fh.Size > h.MaxUploadBytes {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "File too large", gin.H{"max_bytes": h.MaxUploadBytes})
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer f.Close()

	ref, err := h.Svc.UploadProfilePhoto(c.Request.Context(), c.GetString("username"), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile_photo": ref}, "Profile picture updated successfully", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	p, err := h.Svc.Profile(c.Request.Context(), c.GetString("username"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "profile", nil)
}

func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	users, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "search results", gin.H{"count": len(users)})
}
