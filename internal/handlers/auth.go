package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mossy-p/room-admin/internal/auth"
	"github.com/mossy-p/room-admin/internal/models"
)

// Admin is the single operator account the backend accepts.
type Admin struct {
	User         models.User
	PasswordHash string
}

// AuthHandler serves POST /api/auth/login. Errors use the message field.
type AuthHandler struct {
	admin  Admin
	issuer *auth.Issuer
	logger *logrus.Logger
}

func NewAuthHandler(admin Admin, issuer *auth.Issuer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{admin: admin, issuer: issuer, logger: logger}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: bindingMessage(err)})
		return
	}

	if !strings.EqualFold(strings.TrimSpace(req.Email), h.admin.User.Email) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid credentials"})
		return
	}
	ok, err := auth.CheckPassword(req.Password, h.admin.PasswordHash)
	if err != nil {
		h.logger.WithError(err).Error("Failed to verify admin password")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Login failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid credentials"})
		return
	}

	token, err := h.issuer.Issue(h.admin.User.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate token")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to generate token"})
		return
	}

	h.logger.WithField("user_id", h.admin.User.ID).Info("Admin logged in")
	c.JSON(http.StatusOK, models.LoginResponse{Token: token, User: h.admin.User})
}
