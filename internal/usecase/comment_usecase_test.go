package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Keshavsspppp/municipality/internal/adapter/repository/memory"
	"github.com/Keshavsspppp/municipality/internal/domain/entity"
	"github.com/Keshavsspppp/municipality/internal/domain/service"
	"github.com/Keshavsspppp/municipality/internal/infrastructure/metrics"
)

// MockGrouper is a mock implementation of Grouper
type MockGrouper struct {
	mock.Mock
}

func (m *MockGrouper) Group(ctx context.Context, comments []string) ([]entity.Group, error) {
	args := m.Called(ctx, comments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Group), args.Error(1)
}

func (m *MockGrouper) Model() string {
	return "llama3-70b-8192"
}

// MockGroupCache is a mock implementation of GroupCache
type MockGroupCache struct {
	mock.Mock
}

func (m *MockGroupCache) Get(ctx context.Context, key string) ([]entity.Group, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]entity.Group), args.Bool(1), args.Error(2)
}

func (m *MockGroupCache) Set(ctx context.Context, key string, groups []entity.Group) error {
	args := m.Called(ctx, key, groups)
	return args.Error(0)
}

func TestCommentUsecase_AddComment(t *testing.T) {
	t.Run("groups all stored comments", func(t *testing.T) {
		grouper := new(MockGrouper)
		uc := NewCommentUsecase(memory.NewCommentStore(), grouper, nil, nil)

		llmGroups := []entity.Group{{Summary: "Road damage", Comments: []string{"pothole on main st"}}}
		grouper.On("Group", mock.Anything, []string{"pothole on main st"}).Return(llmGroups, nil)

		output, err := uc.AddComment(context.Background(), "  pothole\non  \"main\" st ")

		require.NoError(t, err)
		assert.Equal(t, "Comment added and processed", output.Message)
		assert.Equal(t, llmGroups, output.Groups)

		summaries := uc.Summaries(context.Background())
		assert.Equal(t, llmGroups, summaries.Groups)
		assert.Equal(t, 1, summaries.TotalComments)
		grouper.AssertExpectations(t)
	})

	t.Run("blank text is rejected", func(t *testing.T) {
		grouper := new(MockGrouper)
		uc := NewCommentUsecase(memory.NewCommentStore(), grouper, nil, nil)

		_, err := uc.AddComment(context.Background(), " \n\t")

		assert.ErrorIs(t, err, ErrInvalidComment)
		assert.Equal(t, 0, uc.Summaries(context.Background()).TotalComments)
		grouper.AssertNotCalled(t, "Group", mock.Anything, mock.Anything)
	})

	t.Run("quotes only comment is skipped but existing comments are regrouped", func(t *testing.T) {
		grouper := new(MockGrouper)
		store := memory.NewCommentStore()
		store.Add("broken streetlight")
		uc := NewCommentUsecase(store, grouper, nil, nil)

		grouper.On("Group", mock.Anything, []string{"broken streetlight"}).
			Return([]entity.Group{{Summary: "Lighting", Comments: []string{"broken streetlight"}}}, nil)

		output, err := uc.AddComment(context.Background(), `""`)

		require.NoError(t, err)
		assert.Len(t, output.Groups, 1)
		assert.Equal(t, 1, uc.Summaries(context.Background()).TotalComments)
	})

	t.Run("quotes only comment with empty store fails", func(t *testing.T) {
		uc := NewCommentUsecase(memory.NewCommentStore(), new(MockGrouper), nil, nil)

		_, err := uc.AddComment(context.Background(), `""`)

		assert.ErrorIs(t, err, ErrNoComments)
	})

	t.Run("missing grouper fails after storing", func(t *testing.T) {
		uc := NewCommentUsecase(memory.NewCommentStore(), nil, nil, nil)

		_, err := uc.AddComment(context.Background(), "garbage not collected")

		assert.ErrorIs(t, err, ErrGrouperUnavailable)
		assert.Equal(t, 1, uc.Summaries(context.Background()).TotalComments)
	})

	t.Run("llm failure falls back to one group per comment", func(t *testing.T) {
		grouper := new(MockGrouper)
		store := memory.NewCommentStore()
		store.Add("The drainage near the market overflows every single time it rains")
		uc := NewCommentUsecase(store, grouper, nil, nil)

		grouper.On("Group", mock.Anything, mock.Anything).Return(nil, errors.New("401 invalid api key"))

		output, err := uc.AddComment(context.Background(), "noise")

		require.NoError(t, err)
		require.Len(t, output.Groups, 2)
		assert.Equal(t, "Comment: The drainage near the market overflows e...", output.Groups[0].Summary)
		assert.Equal(t, "Comment: noise...", output.Groups[1].Summary)
		assert.Equal(t, []string{"noise"}, output.Groups[1].Comments)
		assert.Equal(t, output.Groups, uc.Summaries(context.Background()).Groups)
	})
}

func TestCommentUsecase_FallbackReason(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{
			name:   "unusable answer",
			err:    fmt.Errorf("%w: missing groups", service.ErrMalformedGrouping),
			reason: metrics.ReasonMalformed,
		},
		{
			name:   "failed call",
			err:    errors.New("dial tcp: connection refused"),
			reason: metrics.ReasonTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			grouper := new(MockGrouper)
			grouper.On("Group", mock.Anything, mock.Anything).Return(nil, tt.err)
			uc := NewCommentUsecase(memory.NewCommentStore(), grouper, nil, zap.New(core))
			before := testutil.ToFloat64(metrics.GroupingFallbacks.WithLabelValues(tt.reason))

			output, err := uc.AddComment(context.Background(), "flooded underpass")

			require.NoError(t, err)
			assert.Equal(t, entity.FallbackGroups([]string{"flooded underpass"}), output.Groups)
			assert.Equal(t, before+1, testutil.ToFloat64(metrics.GroupingFallbacks.WithLabelValues(tt.reason)))
			entries := logs.FilterMessage("LLM grouping failed, using fallback grouping").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.reason, entries[0].ContextMap()["reason"])
		})
	}
}

func TestCommentUsecase_Cache(t *testing.T) {
	t.Run("cache hit skips llm", func(t *testing.T) {
		grouper := new(MockGrouper)
		cache := new(MockGroupCache)
		uc := NewCommentUsecase(memory.NewCommentStore(), grouper, cache, nil)

		cached := []entity.Group{{Summary: "Cached", Comments: []string{"a"}}}
		cache.On("Get", mock.Anything, CacheKey("llama3-70b-8192", []string{"a"})).Return(cached, true, nil)

		output, err := uc.AddComment(context.Background(), "a")

		require.NoError(t, err)
		assert.Equal(t, cached, output.Groups)
		grouper.AssertNotCalled(t, "Group", mock.Anything, mock.Anything)
		cache.AssertExpectations(t)
	})

	t.Run("llm result is cached", func(t *testing.T) {
		grouper := new(MockGrouper)
		cache := new(MockGroupCache)
		uc := NewCommentUsecase(memory.NewCommentStore(), grouper, cache, nil)

		groups := []entity.Group{{Summary: "A", Comments: []string{"a"}}}
		cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)
		grouper.On("Group", mock.Anything, []string{"a"}).Return(groups, nil)
		cache.On("Set", mock.Anything, mock.Anything, groups).Return(nil)

		_, err := uc.AddComment(context.Background(), "a")

		require.NoError(t, err)
		cache.AssertExpectations(t)
	})

	t.Run("fallback is not cached", func(t *testing.T) {
		grouper := new(MockGrouper)
		cache := new(MockGroupCache)
		uc := NewCommentUsecase(memory.NewCommentStore(), grouper, cache, nil)

		cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)
		grouper.On("Group", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

		_, err := uc.AddComment(context.Background(), "a")

		require.NoError(t, err)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache errors are ignored", func(t *testing.T) {
		grouper := new(MockGrouper)
		cache := new(MockGroupCache)
		uc := NewCommentUsecase(memory.NewCommentStore(), grouper, cache, nil)

		groups := []entity.Group{{Summary: "A", Comments: []string{"a"}}}
		cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, errors.New("connection refused"))
		grouper.On("Group", mock.Anything, []string{"a"}).Return(groups, nil)
		cache.On("Set", mock.Anything, mock.Anything, groups).Return(errors.New("connection refused"))

		output, err := uc.AddComment(context.Background(), "a")

		require.NoError(t, err)
		assert.Equal(t, groups, output.Groups)
	})
}

func TestCommentUsecase_Clear(t *testing.T) {
	grouper := new(MockGrouper)
	uc := NewCommentUsecase(memory.NewCommentStore(), grouper, nil, nil)
	grouper.On("Group", mock.Anything, mock.Anything).
		Return([]entity.Group{{Summary: "A", Comments: []string{"a"}}}, nil)

	_, err := uc.AddComment(context.Background(), "a")
	require.NoError(t, err)

	uc.Clear(context.Background())

	summaries := uc.Summaries(context.Background())
	assert.Equal(t, 0, summaries.TotalComments)
	assert.NotNil(t, summaries.Groups)
	assert.Empty(t, summaries.Groups)
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("m1", []string{"a", "b"})

	assert.Len(t, a, 64)
	assert.Equal(t, a, CacheKey("m1", []string{"a", "b"}))
	assert.NotEqual(t, a, CacheKey("m2", []string{"a", "b"}))
	assert.NotEqual(t, a, CacheKey("m1", []string{"b", "a"}))
	assert.NotEqual(t, CacheKey("m1", []string{"a,b"}), CacheKey("m1", []string{"a", "b"}))
}
