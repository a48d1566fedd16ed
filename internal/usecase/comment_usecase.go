package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Keshavsspppp/municipality/internal/domain/entity"
	"github.com/Keshavsspppp/municipality/internal/domain/repository"
	"github.com/Keshavsspppp/municipality/internal/domain/service"
	"github.com/Keshavsspppp/municipality/internal/infrastructure/metrics"
)

// Error definitions for comment usecase
var (
	ErrInvalidComment     = errors.New("valid comment text is required")
	ErrGrouperUnavailable = errors.New("no grouping client configured")
	ErrNoComments         = errors.New("no comments to group")
)

// GroupsOutput is the result of adding a comment
type GroupsOutput struct {
	Message string         `json:"message"`
	Groups  []entity.Group `json:"groups"`
}

// SummariesOutput is the latest grouping and how many comments it covers
type SummariesOutput struct {
	Groups        []entity.Group `json:"groups"`
	TotalComments int            `json:"total_comments"`
}

// CommentUsecase defines the interface for comment business logic
type CommentUsecase interface {
	AddComment(ctx context.Context, text string) (*GroupsOutput, error)
	Summaries(ctx context.Context) *SummariesOutput
	Clear(ctx context.Context)
}

type commentUsecase struct {
	store   repository.CommentStore
	grouper service.Grouper
	cache   service.GroupCache
	logger  *zap.Logger
}

// NewCommentUsecase creates a new comment usecase. grouper and cache may be nil.
func NewCommentUsecase(store repository.CommentStore, grouper service.Grouper, cache service.GroupCache, logger *zap.Logger) CommentUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &commentUsecase{
		store:   store,
		grouper: grouper,
		cache:   cache,
		logger:  logger,
	}
}

func (u *commentUsecase) AddComment(ctx context.Context, text string) (*GroupsOutput, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidComment
	}

	if sanitized := entity.SanitizeComment(text); sanitized != "" {
		u.store.Add(sanitized)
		metrics.CommentsReceived.WithLabelValues("true").Inc()
	} else {
		metrics.CommentsReceived.WithLabelValues("false").Inc()
		u.logger.Info("Comment empty after sanitization, skipped")
	}

	if u.grouper == nil {
		return nil, ErrGrouperUnavailable
	}

	snap := u.store.Snapshot()
	if len(snap.Comments) == 0 {
		return nil, ErrNoComments
	}

	groups := u.group(ctx, snap.Comments)
	if !u.store.SaveGroups(snap, groups) {
		u.logger.Debug("Discarded stale grouping",
			zap.Uint64("version", snap.Version),
			zap.Uint64("epoch", snap.Epoch),
		)
	}

	return &GroupsOutput{
		Message: "Comment added and processed",
		Groups:  groups,
	}, nil
}

// group asks the model for a grouping, falling back to one group per comment
func (u *commentUsecase) group(ctx context.Context, comments []string) []entity.Group {
	key := CacheKey(u.grouper.Model(), comments)

	if u.cache != nil {
		groups, ok, err := u.cache.Get(ctx, key)
		if err != nil {
			u.logger.Warn("Grouping cache read failed", zap.Error(err))
		} else if ok {
			metrics.Groupings.WithLabelValues(metrics.OutcomeCache).Inc()
			return groups
		}
	}

	groups, err := u.grouper.Group(ctx, comments)
	if err != nil {
		reason := metrics.ReasonTransport
		if errors.Is(err, service.ErrMalformedGrouping) {
			reason = metrics.ReasonMalformed
		}
		u.logger.Warn("LLM grouping failed, using fallback grouping",
			zap.String("reason", reason),
			zap.Int("comments", len(comments)),
			zap.Error(err),
		)
		metrics.Groupings.WithLabelValues(metrics.OutcomeFallback).Inc()
		metrics.GroupingFallbacks.WithLabelValues(reason).Inc()
		return entity.FallbackGroups(comments)
	}
	metrics.Groupings.WithLabelValues(metrics.OutcomeLLM).Inc()

	if u.cache != nil {
		if err := u.cache.Set(ctx, key, groups); err != nil {
			u.logger.Warn("Grouping cache write failed", zap.Error(err))
		}
	}

	return groups
}

func (u *commentUsecase) Summaries(_ context.Context) *SummariesOutput {
	groups, total := u.store.Groups()
	return &SummariesOutput{
		Groups:        groups,
		TotalComments: total,
	}
}

func (u *commentUsecase) Clear(_ context.Context) {
	u.store.Clear()
	u.logger.Info("Comment storage cleared")
}

// CacheKey identifies a grouping of comments produced by model
func CacheKey(model string, comments []string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	// a []string always marshals
	data, _ := json.Marshal(comments)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
