package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/mossy-p/room-admin/config"
	"github.com/mossy-p/room-admin/internal/auth"
	"github.com/mossy-p/room-admin/internal/handlers"
	"github.com/mossy-p/room-admin/internal/models"
	"github.com/mossy-p/room-admin/internal/redis"
	"github.com/mossy-p/room-admin/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := cfg.NewLogger()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.WithError(err).Error("Room backend exited")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s room store: %w", cfg.Backend.Store, err)
	}
	defer closeStore()
	logger.WithField("store", cfg.Backend.Store).Info("Room store ready")

	hash, err := auth.HashPassword(cfg.Backend.AdminPassword, auth.DefaultParams)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := handlers.Admin{
		User: models.User{
			ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte("admin:"+cfg.Backend.AdminEmail)).String(),
			Email:    cfg.Backend.AdminEmail,
			Username: cfg.Backend.AdminUsername,
		},
		PasswordHash: hash,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.Backend.TokenTTL)
	router := handlers.NewRouter(handlers.RouterConfig{
		Rooms:          handlers.NewRoomHandler(store, auth.DefaultParams, logger),
		Auth:           handlers.NewAuthHandler(admin, issuer, logger),
		Issuer:         issuer,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	logger.Infof("Starting room backend on port %s", cfg.Backend.Port)
	return router.Run(":" + cfg.Backend.Port)
}

// openStore opens the room store named by BACKEND_STORE.
func openStore(ctx context.Context, cfg *config.Config) (storage.RoomStore, func(), error) {
	switch cfg.Backend.Store {
	case "memory":
		return storage.NewMemoryStore(), func() {}, nil
	case "redis":
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewRedisStore(client), func() { client.Close() }, nil
	case "postgres":
		pg, err := storage.OpenPostgres(ctx, cfg.Backend.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown room store %q", cfg.Backend.Store)
	}
}
