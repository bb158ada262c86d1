package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/moneta-app/moneta-server/internal/application"
	"github.com/moneta-app/moneta-server/internal/domain/entity"
	"github.com/moneta-app/moneta-server/internal/domain/repository"
	"github.com/moneta-app/moneta-server/internal/interface/middleware"
	"github.com/moneta-app/moneta-server/pkg/response"
	"github.com/moneta-app/moneta-server/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"created_at": u.CreatedAt,
	}
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.KindValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	sess, err := h.Svc.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, response.KindConflict, "email already registered", nil)
			return
		}
		h.Logger.WithError(err).Error("signup failed")
		response.Error(c, http.StatusInternalServerError, response.KindInternal, "signup failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"token": sess.Token,
		"user":  userJSON(sess.User),
	}, "account created", gin.H{"expires_at": sess.ExpiresAt})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.KindValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.KindUnauthorized, "invalid credentials", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error(c, http.StatusInternalServerError, response.KindInternal, "login failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"token": sess.Token,
		"user":  userJSON(sess.User),
	}, "login successful", gin.H{"expires_at": sess.ExpiresAt})
}

// Me GET /api/profile/me
func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.Profile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.KindNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", uid).Error("profile lookup failed")
		response.Error(c, http.StatusInternalServerError, response.KindInternal, "profile lookup failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": userJSON(u)}, "profile", nil)
}
