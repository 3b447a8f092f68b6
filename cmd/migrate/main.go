package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pageza/swipe-suggest/backend/config"
	"github.com/pageza/swipe-suggest/backend/internal/database"
	"github.com/pageza/swipe-suggest/backend/internal/logger"
	"github.com/pageza/swipe-suggest/backend/internal/service"
)

func main() {
	retention := flag.Duration("prune", 0, "delete audit rows older than this (e.g. 720h); 0 keeps everything")
	dsn := flag.String("dsn", "", "database URL (defaults to DATABASE_URL)")
	flag.Parse()

	if err := logger.Init(string(config.GetEnvironment())); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Named("migrate")

	_ = godotenv.Load()
	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_URL")
	}
	if *dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.New(*dsn)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("migrations applied")

	if *retention > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		deleted, err := service.NewGormAuditRecorder(db).Prune(ctx, time.Now().Add(-*retention))
		if err != nil {
			log.Fatal("failed to prune audit rows", zap.Error(err))
		}
		log.Info("pruned audit rows", zap.Int64("deleted", deleted), zap.Duration("retention", *retention))
	}
}
