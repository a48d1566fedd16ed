package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Keshavsspppp/municipality/internal/domain/repository"
	"github.com/Keshavsspppp/municipality/internal/usecase"
)

// Messages shown to web clients
const (
	MsgInvalidComment   = "Valid comment text is required"
	MsgGroupingFailed   = "Failed to process comments. Check API key or input data."
	MsgNoFilePart       = "No file part in the request"
	MsgNoSelectedFile   = "No selected file"
	MsgPredictionFailed = "Error during model prediction."
	MsgProcessingPrefix = "Error processing file: "
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapUsecaseError maps usecase errors to HTTP error responses.
// It provides consistent error handling across all handlers.
func MapUsecaseError(err error) ErrorResponse {
	switch {
	case errors.Is(err, usecase.ErrInvalidComment):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    MsgInvalidComment,
		}
	case errors.Is(err, usecase.ErrGrouperUnavailable), errors.Is(err, usecase.ErrNoComments):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "GROUPING_FAILED",
			Message:    MsgGroupingFailed,
		}
	case errors.Is(err, usecase.ErrNoFile):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    MsgNoFilePart,
		}
	case errors.Is(err, usecase.ErrEmptyFilename):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       "INVALID_REQUEST",
			Message:    MsgNoSelectedFile,
		}
	case errors.Is(err, repository.ErrUploadTooLarge):
		return ErrorResponse{
			StatusCode: http.StatusRequestEntityTooLarge,
			Code:       "FILE_TOO_LARGE",
			Message:    "File too large",
		}
	case errors.Is(err, usecase.ErrStorage):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "STORAGE_ERROR",
			Message:    MsgProcessingPrefix + strings.TrimPrefix(err.Error(), usecase.ErrStorage.Error()+": "),
		}
	case errors.Is(err, usecase.ErrPrediction):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "PREDICTION_FAILED",
			Message:    MsgPredictionFailed,
		}
	case errors.Is(err, usecase.ErrDetectionNotFound):
		return ErrorResponse{
			StatusCode: http.StatusNotFound,
			Code:       "NOT_FOUND",
			Message:    "detection not found",
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
// It maps the error to an HTTP status and sends a JSON error response.
func HandleUsecaseError(c *gin.Context, err error) {
	errResp := MapUsecaseError(err)
	respondError(c, errResp.StatusCode, errResp.Code, errResp.Message)
}

// HandleInvalidUUID handles an invalid UUID parameter error.
func HandleInvalidUUID(c *gin.Context, paramName string) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid "+paramName)
}
