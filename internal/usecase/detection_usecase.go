package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Keshavsspppp/municipality/internal/domain/entity"
	"github.com/Keshavsspppp/municipality/internal/domain/repository"
	"github.com/Keshavsspppp/municipality/internal/domain/service"
	"github.com/Keshavsspppp/municipality/internal/imaging"
	"github.com/Keshavsspppp/municipality/internal/infrastructure/metrics"
)

// Error definitions for detection usecase
var (
	ErrNoFile            = errors.New("no file part in the request")
	ErrEmptyFilename     = errors.New("no selected file")
	ErrStorage           = errors.New("error processing file")
	ErrPrediction        = errors.New("error during model prediction")
	ErrDetectionNotFound = errors.New("detection not found")
)

// DetectInput is a single uploaded image
type DetectInput struct {
	Filename string
	Content  io.Reader
}

// DetectionOutput represents the output for detection operations
type DetectionOutput struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	Status     string    `json:"status"`
	IsPothole  bool      `json:"is_pothole"`
	Confidence string    `json:"confidence"`
	LatencyMs  int64     `json:"latency_ms"`
	CreatedAt  string    `json:"created_at"`
}

// DetectionListOutput represents paginated detection history
type DetectionListOutput struct {
	Detections []*DetectionOutput `json:"detections"`
	Total      int64              `json:"total"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
	HasMore    bool               `json:"has_more"`
}

// DetectionUsecase defines the interface for pothole detection
type DetectionUsecase interface {
	Detect(ctx context.Context, input *DetectInput) (*DetectionOutput, error)
	GetByID(ctx context.Context, id uuid.UUID) (*DetectionOutput, error)
	List(ctx context.Context, limit, offset int) (*DetectionListOutput, error)
}

// Detection history pagination bounds
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// DetectionOptions tune preprocessing and classification
type DetectionOptions struct {
	ImageSize int
	MaxPixels int
	Threshold float64
}

type detectionUsecase struct {
	uploads    repository.UploadStore
	repo       repository.DetectionRepository
	classifier service.ImageClassifier
	opts       DetectionOptions
	logger     *zap.Logger
}

// NewDetectionUsecase creates a new detection usecase. classifier may be nil,
// in which case every prediction fails.
func NewDetectionUsecase(
	uploads repository.UploadStore,
	repo repository.DetectionRepository,
	classifier service.ImageClassifier,
	opts DetectionOptions,
	logger *zap.Logger,
) DetectionUsecase {
	if opts.ImageSize <= 0 {
		opts.ImageSize = imaging.DefaultSize
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = imaging.DefaultMaxPixels
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &detectionUsecase{
		uploads:    uploads,
		repo:       repo,
		classifier: classifier,
		opts:       opts,
		logger:     logger,
	}
}

func (u *detectionUsecase) Detect(ctx context.Context, input *DetectInput) (*DetectionOutput, error) {
	if input == nil || input.Content == nil {
		return nil, ErrNoFile
	}
	if input.Filename == "" {
		return nil, ErrEmptyFilename
	}

	name := entity.SecureFilename(input.Filename)
	if name == "" {
		name = uuid.NewString()
	}

	data, err := u.uploads.Save(name, input.Content)
	if err != nil {
		metrics.DetectionFailures.WithLabelValues("storage").Inc()
		if errors.Is(err, repository.ErrUploadTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if u.classifier == nil {
		metrics.DetectionFailures.WithLabelValues("model").Inc()
		return nil, fmt.Errorf("%w: %w", ErrPrediction, service.ErrModelUnavailable)
	}

	img, format, err := imaging.Decode(data, u.opts.MaxPixels)
	if err != nil {
		metrics.DetectionFailures.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("%w: %w", ErrPrediction, err)
	}

	batch := imaging.Preprocess(img, u.opts.ImageSize)

	start := time.Now()
	output, err := u.classifier.Predict(ctx, batch)
	elapsed := time.Since(start)
	metrics.InferenceDuration.WithLabelValues(u.classifier.Name()).Observe(elapsed.Seconds())
	if err != nil {
		metrics.DetectionFailures.WithLabelValues("predict").Inc()
		u.logger.Error("Model prediction failed",
			zap.String("filename", name),
			zap.String("backend", u.classifier.Name()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrPrediction, err)
	}

	detection := entity.NewDetection(name, output, u.opts.Threshold)
	detection.LatencyMs = elapsed.Milliseconds()
	detection.CreatedAt = time.Now()
	metrics.Detections.WithLabelValues(string(detection.Status)).Inc()

	u.logger.Info("Image classified",
		zap.String("filename", name),
		zap.String("format", format),
		zap.String("status", string(detection.Status)),
		zap.Float64("output", output),
		zap.Int64("latency_ms", detection.LatencyMs),
	)

	if err := u.repo.Create(ctx, detection); err != nil {
		metrics.DetectionFailures.WithLabelValues("record").Inc()
		u.logger.Warn("Failed to record detection", zap.String("id", detection.ID.String()), zap.Error(err))
	}

	return toDetectionOutput(detection), nil
}

func (u *detectionUsecase) GetByID(ctx context.Context, id uuid.UUID) (*DetectionOutput, error) {
	detection, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if detection == nil {
		return nil, ErrDetectionNotFound
	}

	return toDetectionOutput(detection), nil
}

func (u *detectionUsecase) List(ctx context.Context, limit, offset int) (*DetectionListOutput, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	detections, total, err := u.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	outputs := make([]*DetectionOutput, len(detections))
	for i, d := range detections {
		outputs[i] = toDetectionOutput(d)
	}

	return &DetectionListOutput{
		Detections: outputs,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    int64(offset+limit) < total,
	}, nil
}

func toDetectionOutput(d *entity.Detection) *DetectionOutput {
	return &DetectionOutput{
		ID:         d.ID,
		Filename:   d.Filename,
		Status:     string(d.Status),
		IsPothole:  d.IsPothole,
		Confidence: d.FormattedConfidence(),
		LatencyMs:  d.LatencyMs,
		CreatedAt:  d.CreatedAt.UTC().Format(time.RFC3339),
	}
}
