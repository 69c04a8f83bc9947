package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/taskquest/config"
	"github.com/oksasatya/taskquest/internal/container"
	"github.com/oksasatya/taskquest/internal/router"
	"github.com/oksasatya/taskquest/pkg/helpers"
	"github.com/oksasatya/taskquest/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	cleanup, err := container.Bootstrap(ctx, cfg, logger)
	defer cleanup()
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}

	svc := router.BuildService()
	n, err := svc.RebuildTokenIndex(ctx)
	if err != nil {
		log.Fatalf("failed to load sessions: %v", err)
	}
	logger.Infof("loaded %d live session tokens", n)

	r := router.NewEngine(svc)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}
