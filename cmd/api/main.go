package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pageza/swipe-suggest/backend/config"
	"github.com/pageza/swipe-suggest/backend/internal/logger"
	"github.com/pageza/swipe-suggest/backend/internal/server"
)

func main() {
	if err := logger.Init(string(config.GetEnvironment())); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Named("main")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	// ENV may only have been set by .env
	if err := logger.Init(string(cfg.Environment)); err != nil {
		log.Fatal("failed to initialise logger", zap.Error(err))
	}
	log = logger.Named("main")

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatal("failed to create server", zap.Error(err))
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		log.Info("received signal", zap.String("signal", sig.String()))
	}

	log.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error("server shutdown error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("server stopped")
}
