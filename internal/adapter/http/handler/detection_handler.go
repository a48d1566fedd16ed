package handler

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keshavsspppp/municipality/internal/usecase"
)

// UploadsRoute is where stored uploads are served from
const UploadsRoute = "/static/uploads"

// IndexTemplate is the name of the upload page template
const IndexTemplate = "index.html"

//go:embed templates/index.html
var templateFS embed.FS

// Templates parses the HTML pages served by the detection service
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/"+IndexTemplate))
}

// DetectionHandler handles pothole detection endpoints
type DetectionHandler struct {
	uc usecase.DetectionUsecase
}

// NewDetectionHandler creates a new detection handler
func NewDetectionHandler(uc usecase.DetectionUsecase) *DetectionHandler {
	return &DetectionHandler{uc: uc}
}

// Prediction is the classification shown to clients
type Prediction struct {
	Status     string `json:"status"`
	Confidence string `json:"confidence"`
	ImagePath  string `json:"image_path"`
}

// DetectResponse is the body of a successful POST /api/detect
type DetectResponse struct {
	Prediction Prediction `json:"prediction"`
}

type indexPage struct {
	Prediction *Prediction
	ImagePath  string
	Error      string
}

// detect reads the "file" form field and classifies it
func (h *DetectionHandler) detect(c *gin.Context) (*usecase.DetectionOutput, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		// a file input submitted without a selection arrives as a plain value
		if form := c.Request.MultipartForm; form != nil {
			if _, ok := form.Value["file"]; ok {
				return nil, usecase.ErrEmptyFilename
			}
		}
		return nil, usecase.ErrNoFile
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", usecase.ErrStorage, err)
	}
	defer file.Close()

	return h.uc.Detect(c.Request.Context(), &usecase.DetectInput{
		Filename: fileHeader.Filename,
		Content:  file,
	})
}

// Detect handles POST /api/detect
func (h *DetectionHandler) Detect(c *gin.Context) {
	output, err := h.detect(c)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, DetectResponse{
		Prediction: Prediction{
			Status:     output.Status,
			Confidence: output.Confidence,
			ImagePath:  AbsoluteURL(c, UploadsRoute+"/"+output.Filename),
		},
	})
}

// Index handles GET and POST / with the HTML upload page
func (h *DetectionHandler) Index(c *gin.Context) {
	page := indexPage{}

	if c.Request.Method == http.MethodPost {
		output, err := h.detect(c)
		if err != nil {
			page.Error = MapUsecaseError(err).Message
		} else {
			page.Prediction = &Prediction{
				Status:     output.Status,
				Confidence: output.Confidence,
			}
			page.ImagePath = UploadsRoute + "/" + output.Filename
		}
	}

	c.HTML(http.StatusOK, IndexTemplate, page)
}

// ListDetections handles GET /api/detections
func (h *DetectionHandler) ListDetections(c *gin.Context) {
	pagination := ParsePagination(c)

	output, err := h.uc.List(c.Request.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// GetDetection handles GET /api/detections/:id
func (h *DetectionHandler) GetDetection(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "detection id")
		return
	}

	output, err := h.uc.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}
