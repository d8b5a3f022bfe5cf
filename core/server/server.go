package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"groupmeet-api/core/cache"
	"groupmeet-api/core/config"
	"groupmeet-api/core/constants"
	"groupmeet-api/core/database"
	"groupmeet-api/core/logger"
	"groupmeet-api/core/middleware"
	"groupmeet-api/core/taskq"
	"groupmeet-api/core/utils"
	"groupmeet-api/modules/group"
	"groupmeet-api/modules/meeting"
	"groupmeet-api/modules/notification"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Run boots the API server, the redis cache and the notification worker,
// then blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	redisCache, err := cache.InitCache(cfg.Redis)
	if err != nil {
		return err
	}
	defer redisCache.Close()

	taskClient := taskq.NewClient(cfg.Redis)
	defer taskClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Local development only; production deployments receive tokens from
	// the identity provider in front of this API.
	if cfg.Server.Env == "development" {
		e.POST("/api/v1/dev/token", mintDevToken)
	}

	mw := middleware.NewMiddleware()
	private := e.Group("/api/v1/private")

	groupService := group.Init(private, db, mw)
	meeting.Init(private, db, mw, groupService, redisCache, taskClient)
	notificationService := notification.Init(private, db, mw)

	mux := asynq.NewServeMux()
	notification.RegisterWorker(mux, notificationService)
	worker := taskq.StartWorker(cfg, mux)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("Starting server", "addr", addr, "env", cfg.Server.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	worker.Shutdown()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server:Shutdown", err)
		return err
	}

	logger.Info("Server stopped")
	return nil
}

// mintDevToken signs an access/refresh token pair for the given user.
func mintDevToken(c echo.Context) error {
	var req struct {
		UserID   string  `json:"user_id"`
		Email    *string `json:"email"`
		Username *string `json:"username"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}

	access, err := utils.GenerateToken(userID, req.Email, req.Username, constants.ScopeTokenAccess)
	if err != nil {
		logger.Error("Server:mintDevToken", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to sign token")
	}

	refresh, err := utils.GenerateToken(userID, req.Email, req.Username, constants.ScopeTokenRefresh)
	if err != nil {
		logger.Error("Server:mintDevToken", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to sign token")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
	})
}
