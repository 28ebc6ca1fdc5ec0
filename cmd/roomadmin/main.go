package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/mossy-p/room-admin/config"
	"github.com/mossy-p/room-admin/internal/redis"
	"github.com/mossy-p/room-admin/internal/roomapi"
	"github.com/mossy-p/room-admin/internal/session"
	"github.com/mossy-p/room-admin/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := cfg.NewLogger()

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("Room admin exited")
		os.Exit(1)
	}
}

// run serves the dashboard until the listener fails. Deferred cleanup runs
// before main decides the exit code.
func run(cfg *config.Config, logger *logrus.Logger) error {
	var store session.Storage = session.NewMemoryStorage()
	if cfg.Admin.SessionStore == "redis" {
		client, err := redis.Connect(context.Background(), cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		store = session.NewRedisStorage(client, cfg.Admin.SessionTTL)
		logger.Info("Redis session storage established")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := web.NewServer(web.Options{
		Client:        roomapi.New(cfg.Admin.BackendURL, cfg.Admin.RequestTimeout),
		Storage:       store,
		Logger:        logger,
		CookieName:    cfg.Admin.CookieName,
		SessionTTL:    cfg.Admin.SessionTTL,
		RedirectDelay: cfg.Admin.RedirectDelay,
		SuccessWindow: cfg.Admin.SuccessWindow,
		SecureCookie:  cfg.IsProduction(),
	})
	if err != nil {
		return fmt.Errorf("build admin UI: %w", err)
	}

	logger.WithField("backend", cfg.Admin.BackendURL).Infof("Starting room admin on port %s", cfg.Admin.Port)
	return srv.Router().Run(":" + cfg.Admin.Port)
}
