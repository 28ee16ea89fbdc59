package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pricing-grader/internal/api/handlers"
	"pricing-grader/internal/api/middleware"
	"pricing-grader/internal/config"
	"pricing-grader/internal/sim"
	"pricing-grader/internal/storage"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(os.Getenv("GRADER_CONFIG"))
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}

	db, err := storage.Open(cfg.Storage.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("opening database")
	}
	defer db.Close()

	files, err := storage.NewFileStore(cfg.Storage.FilesDir)
	if err != nil {
		log.WithError(err).Fatal("opening file store")
	}

	// One bank cache for the whole process: every engine shares the same
	// deterministic draw tables.
	banks := sim.NewBankCache()

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.ErrorHandler())

	h := handlers.New(cfg, banks, db, files, log)

	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/config", h.GetConfig)
		api.GET("/template", h.GetTemplate)
		api.GET("/benchmark", h.GetBenchmark)
		api.POST("/validate-csv", h.ValidateCSV)
		api.POST("/simulate", h.Simulate)

		api.POST("/submissions", h.Submit)
		api.GET("/submissions", h.ListSubmissions)
		api.GET("/submissions/:id", h.GetSubmission)
		api.GET("/leaderboard", h.Leaderboard)
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.WithFields(logrus.Fields{
		"addr":               addr,
		"assignment_version": cfg.AssignmentVersion,
		"locked_dimensions":  fmt.Sprintf("%dx%d", cfg.LockI, cfg.LockT),
	}).Info("starting API server")

	if err := router.Run(addr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
