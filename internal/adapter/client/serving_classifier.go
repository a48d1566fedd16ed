package client

import (
	"context"
	"fmt"

	"github.com/Keshavsspppp/municipality/internal/domain/service"
	"github.com/Keshavsspppp/municipality/internal/imaging"
)

// ServingClassifier adapts ServingClient to the ImageClassifier interface
type ServingClassifier struct {
	client *ServingClient
}

// NewServingClassifier creates a new ServingClassifier
func NewServingClassifier(client *ServingClient) service.ImageClassifier {
	return &ServingClassifier{client: client}
}

// Predict classifies a preprocessed batch of one image
func (c *ServingClassifier) Predict(ctx context.Context, batch imaging.Batch) (float64, error) {
	resp, err := c.client.Predict(ctx, batch.Nested())
	if err != nil {
		return 0, err
	}
	return resp.FirstScore()
}

// Ready checks that a model version is loaded
func (c *ServingClassifier) Ready(ctx context.Context) error {
	status, err := c.client.ModelStatus(ctx)
	if err != nil {
		return err
	}
	if !status.Available() {
		return fmt.Errorf("model %s has no available version", c.client.model)
	}
	return nil
}

// Name returns the backend name
func (c *ServingClassifier) Name() string {
	return "serving"
}
