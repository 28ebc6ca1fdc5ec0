// Package handlers implements the room backend's REST API with gin.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mossy-p/room-admin/internal/auth"
	"github.com/mossy-p/room-admin/internal/middleware"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Rooms          *RoomHandler
	Auth           *AuthHandler
	Issuer         *auth.Issuer
	Logger         *logrus.Logger
	AllowedOrigins []string
}

// NewRouter builds the backend engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	registerJSONFieldNames()

	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(cfg.Logger))
	router.Use(middleware.OriginFilter(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/auth/login", cfg.Auth.Login)

		rooms := api.Group("/room")
		rooms.GET("/all-rooms", cfg.Rooms.List)

		protected := rooms.Group("", middleware.JWTAuth(cfg.Issuer))
		protected.POST("/create", cfg.Rooms.Create)
		protected.PUT("/update-slot/:id", cfg.Rooms.Update)
		protected.DELETE("/delete-slot/:id", cfg.Rooms.Delete)
	}

	return router
}
