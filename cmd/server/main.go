package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hornossanz/shift-planner/pkg/auth"
	"github.com/hornossanz/shift-planner/pkg/config"
	"github.com/hornossanz/shift-planner/pkg/database"
	"github.com/hornossanz/shift-planner/pkg/handlers"
	"github.com/hornossanz/shift-planner/pkg/logging"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	entry := logrus.NewEntry(log)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormLevel := logger.Error
	if cfg.LogLevel == "debug" {
		gormLevel = logger.Info
	}
	db, err := database.InitDB(database.Options{
		DatabaseURL: cfg.DatabaseURL,
		DataPath:    cfg.DataPath,
		LogLevel:    gormLevel,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword, entry); err != nil {
		log.Fatalf("Failed to ensure admin user: %v", err)
	}
	if cfg.IsDevelopment() {
		if err := database.Seed(context.Background(), db, entry); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	h, err := handlers.New(db, cfg, log)
	if err != nil {
		log.Fatalf("Failed to build handlers: %v", err)
	}
	r := handlers.SetupRouter(h)

	log.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
	}).Info("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
