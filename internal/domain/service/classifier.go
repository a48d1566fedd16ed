package service

import (
	"context"
	"errors"

	"github.com/Keshavsspppp/municipality/internal/imaging"
)

// ErrModelUnavailable is returned when no model backend is loaded
var ErrModelUnavailable = errors.New("model unavailable")

// ImageClassifier runs a binary classifier over preprocessed images
type ImageClassifier interface {
	// Predict returns the raw sigmoid output for a batch of one image
	Predict(ctx context.Context, batch imaging.Batch) (float64, error)

	// Ready reports whether the model can serve predictions
	Ready(ctx context.Context) error

	// Name identifies the backend in health output and logs
	Name() string
}
