//go:build !tensorflow

package tensorflow

import (
	"context"

	"github.com/Keshavsspppp/municipality/internal/imaging"
)

// Classifier is unavailable without the tensorflow build tag
type Classifier struct{}

// Load always fails without the tensorflow build tag
func Load(Options) (*Classifier, error) {
	return nil, ErrNotCompiled
}

// Predict always fails without the tensorflow build tag
func (c *Classifier) Predict(context.Context, imaging.Batch) (float64, error) {
	return 0, ErrNotCompiled
}

// Ready always fails without the tensorflow build tag
func (c *Classifier) Ready(context.Context) error {
	return ErrNotCompiled
}

// Name returns the backend name
func (c *Classifier) Name() string {
	return "tensorflow"
}

// Close is a no-op
func (c *Classifier) Close() error {
	return nil
}
