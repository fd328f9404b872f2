package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hornossanz/shift-planner/pkg/auth"
	"github.com/hornossanz/shift-planner/pkg/config"
	"github.com/hornossanz/shift-planner/pkg/database"
	"github.com/hornossanz/shift-planner/pkg/handlers"
	"github.com/hornossanz/shift-planner/pkg/logging"
	"github.com/sirupsen/logrus"
)

var r *gin.Engine

func init() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.InitDB(database.Options{DatabaseURL: cfg.DatabaseURL, DataPath: cfg.DataPath})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword, logrus.NewEntry(log)); err != nil {
		log.Fatalf("Failed to ensure admin user: %v", err)
	}

	h, err := handlers.New(db, cfg, log)
	if err != nil {
		log.Fatalf("Failed to build handlers: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r = handlers.SetupRouter(h)
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
