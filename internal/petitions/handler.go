package petitions

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/honterplatform/icetex/internal/classify"
	"github.com/honterplatform/icetex/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc       *Service
	MaxUpload int64
}

// NewHandler constructs a Handler. maxUpload caps the request body in bytes.
func NewHandler(svc *Service, maxUpload int64) *Handler {
	return &Handler{Svc: svc, MaxUpload: maxUpload}
}

// RegisterRoutes attaches petition routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/petitions/classify", h.classify)
	rg.GET("/petitions", h.list)
	rg.GET("/petitions/:id", h.get)
	rg.GET("/dependencies", h.dependencies)
}

func (h *Handler) classify(c *gin.Context) {
	if !h.Svc.Available() {
		respond.Error(c, http.StatusServiceUnavailable, "classification_unavailable", "classification is not configured; set OPENAI_API_KEY", nil)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Only PDF files are accepted. Please upload a PDF document.", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	if len(data) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "The uploaded file is empty.", nil)
		return
	}

	p, err := h.Svc.Classify(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		var insufficient *InsufficientTextError
		switch {
		case errors.As(err, &insufficient):
			respond.Error(c, http.StatusBadRequest, "insufficient_text", "Could not extract sufficient text from the PDF", gin.H{
				"detail":         "The PDF might be corrupted, password-protected, or contain no readable text. Please ensure the document is a valid PDF with text content.",
				"extracted_text": insufficient.Extracted,
			})
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "classification_failed", err.Error(), nil)
		}
		return
	}

	c.Set("petitionId", p.ID)
	c.Set("dependencia", p.Dependencia)
	respond.JSON(c, http.StatusOK, toClassifyResponse(p))
}

func (h *Handler) list(c *gin.Context) {
	limit := defaultListLimit
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	items, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list petitions", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"petitions": toResponseList(items),
		"count":     len(items),
	})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "petition not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch petition", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(p))
}

func (h *Handler) dependencies(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{"dependencies": classify.Dependencies})
}
