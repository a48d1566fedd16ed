package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Keshavsspppp/municipality/internal/adapter/client"
	"github.com/Keshavsspppp/municipality/internal/adapter/http/router"
	"github.com/Keshavsspppp/municipality/internal/adapter/storage"
	"github.com/Keshavsspppp/municipality/internal/adapter/tensorflow"
	"github.com/Keshavsspppp/municipality/internal/domain/service"
	"github.com/Keshavsspppp/municipality/internal/infrastructure/config"
	"github.com/Keshavsspppp/municipality/internal/infrastructure/database"
	"github.com/Keshavsspppp/municipality/internal/infrastructure/logger"
	"github.com/Keshavsspppp/municipality/internal/usecase"
)

var detectionCmd = &cobra.Command{
	Use:   "detection",
	Short: "Run the pothole detection service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDetection()
	},
}

// newClassifier builds the configured model backend. A backend that fails to
// load is logged and the service runs without a model.
func newClassifier(cfg *config.ModelConfig, log *zap.Logger) (service.ImageClassifier, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.BackendServing:
		log.Info("Using TF Serving model backend",
			zap.String("url", cfg.ServingURL),
			zap.String("model", cfg.Name),
		)
		return client.NewServingClassifier(client.NewServingClient(cfg.ServingURL, cfg.Name, cfg.Timeout)), noop, nil
	case config.BackendTensorFlow:
		c, err := tensorflow.Load(tensorflow.OptionsFromConfig(cfg))
		if err != nil {
			log.Error("Failed to load model, predictions disabled",
				zap.String("saved_model", cfg.SavedModel),
				zap.Error(err),
			)
			return nil, noop, nil
		}
		log.Info("Model loaded", zap.String("saved_model", cfg.SavedModel))
		return c, func() { _ = c.Close() }, nil
	case config.BackendNone:
		log.Warn("No model backend configured, predictions disabled")
		return nil, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown model backend %q", cfg.Backend)
	}
}

func runDetection() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(&cfg.Log, "detection")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.Detection.Server.Mode)

	classifier, closeModel, err := newClassifier(&cfg.Detection.Model, log)
	if err != nil {
		return err
	}
	defer closeModel()

	uploads, err := storage.NewUploadStore(afero.NewOsFs(), cfg.Detection.Upload.Dir, cfg.Detection.Upload.MaxBytes)
	if err != nil {
		return err
	}
	log.Info("Upload folder ready", zap.String("dir", cfg.Detection.Upload.Dir))

	// Initialize database (optional, history stays in memory without it)
	var db *gorm.DB
	if cfg.Detection.Database.Enabled {
		db, err = database.NewPostgresDB(&cfg.Detection.Database)
		if err != nil {
			log.Error("Failed to connect to database", zap.Error(err))
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Connected to database")

		if err := database.AutoMigrate(db); err != nil {
			log.Error("Failed to run migrations", zap.Error(err))
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("Database migrations completed")

		defer func() {
			if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
				_ = sqlDB.Close()
			}
		}()
	}

	r := router.SetupDetection(classifier, db, uploads, usecase.DetectionOptions{
		ImageSize: cfg.Detection.Model.ImageSize,
		MaxPixels: cfg.Detection.Model.MaxPixels,
		Threshold: cfg.Detection.Model.Threshold,
	}, log)
	return serve(log, &cfg.Detection.Server, r)
}
