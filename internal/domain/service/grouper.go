package service

import (
	"context"
	"errors"

	"github.com/Keshavsspppp/municipality/internal/domain/entity"
)

// ErrMalformedGrouping is returned when the model answer is not a valid grouping
var ErrMalformedGrouping = errors.New("malformed grouping response")

// Grouper clusters comments by meaning
type Grouper interface {
	Group(ctx context.Context, comments []string) ([]entity.Group, error)

	// Model names the model so cached groupings are not shared across models
	Model() string
}

// GroupCache stores groupings keyed by the comment set they were built from
type GroupCache interface {
	Get(ctx context.Context, key string) ([]entity.Group, bool, error)
	Set(ctx context.Context, key string, groups []entity.Group) error
}
