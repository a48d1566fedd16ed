package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Keshavsspppp/municipality/internal/domain/entity"
	"github.com/Keshavsspppp/municipality/internal/usecase"
)

// MockCommentUsecase is a mock implementation of CommentUsecase
type MockCommentUsecase struct {
	mock.Mock
}

func (m *MockCommentUsecase) AddComment(ctx context.Context, text string) (*usecase.GroupsOutput, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.GroupsOutput), args.Error(1)
}

func (m *MockCommentUsecase) Summaries(ctx context.Context) *usecase.SummariesOutput {
	args := m.Called(ctx)
	return args.Get(0).(*usecase.SummariesOutput)
}

func (m *MockCommentUsecase) Clear(ctx context.Context) {
	m.Called(ctx)
}

func setupCommentRouter(h *CommentHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/comment", h.AddComment)
	r.GET("/summaries", h.GetSummaries)
	r.POST("/clear", h.Clear)
	return r
}

func TestAddComment_Success(t *testing.T) {
	mockUC := new(MockCommentUsecase)
	router := setupCommentRouter(NewCommentHandler(mockUC))

	mockUC.On("AddComment", mock.Anything, "Streetlight broken").Return(&usecase.GroupsOutput{
		Message: "Comment added and processed",
		Groups:  []entity.Group{{Summary: "Lighting", Comments: []string{"Streetlight broken"}}},
	}, nil)

	req, _ := http.NewRequest("POST", "/comment", bytes.NewBufferString(`{"text": "Streetlight broken"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"message": "Comment added and processed",
		"groups": [{"summary": "Lighting", "comments": ["Streetlight broken"]}]
	}`, w.Body.String())
	mockUC.AssertExpectations(t)
}

func TestAddComment_InvalidBody(t *testing.T) {
	bodies := map[string]string{
		"not json":        `text=hello`,
		"array":           `["hello"]`,
		"number text":     `{"text": 42}`,
		"missing text":    `{"comment": "hello"}`,
		"empty body":      ``,
		"null text value": `{"text": null}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			mockUC := new(MockCommentUsecase)
			router := setupCommentRouter(NewCommentHandler(mockUC))
			mockUC.On("AddComment", mock.Anything, "").Return(nil, usecase.ErrInvalidComment)

			req, _ := http.NewRequest("POST", "/comment", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"Valid comment text is required"`)
		})
	}
}

func TestAddComment_GroupingFailed(t *testing.T) {
	mockUC := new(MockCommentUsecase)
	router := setupCommentRouter(NewCommentHandler(mockUC))

	mockUC.On("AddComment", mock.Anything, "hello").Return(nil, usecase.ErrGrouperUnavailable)

	req, _ := http.NewRequest("POST", "/comment", bytes.NewBufferString(`{"text": "hello"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to process comments. Check API key or input data.")
	assert.Contains(t, w.Body.String(), "GROUPING_FAILED")
}

func TestGetSummaries(t *testing.T) {
	mockUC := new(MockCommentUsecase)
	router := setupCommentRouter(NewCommentHandler(mockUC))

	mockUC.On("Summaries", mock.Anything).Return(&usecase.SummariesOutput{
		Groups:        []entity.Group{},
		TotalComments: 0,
	})

	req, _ := http.NewRequest("GET", "/summaries", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"groups": [], "total_comments": 0}`, w.Body.String())
}

func TestClear(t *testing.T) {
	mockUC := new(MockCommentUsecase)
	router := setupCommentRouter(NewCommentHandler(mockUC))

	mockUC.On("Clear", mock.Anything).Return()

	req, _ := http.NewRequest("POST", "/clear", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Storage cleared successfully"}`, w.Body.String())
	mockUC.AssertExpectations(t)
}
