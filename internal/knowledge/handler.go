package knowledge

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/honterplatform/icetex/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the store.
type Handler struct {
	Store     *Store
	MaxUpload int64
}

// NewHandler constructs a Handler. maxUpload caps the request body in bytes.
func NewHandler(store *Store, maxUpload int64) *Handler {
	return &Handler{Store: store, MaxUpload: maxUpload}
}

// RegisterRoutes attaches knowledge base routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/knowledge-base", h.upload)
	rg.GET("/knowledge-base", h.info)
	rg.DELETE("/knowledge-base", h.clear)
}

type uploadResponse struct {
	Message           string `json:"message"`
	Filename          string `json:"filename"`
	TextLength        int    `json:"text_length"`
	KnowledgeBaseInfo Status `json:"knowledge_base_info"`
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Only PDF files are accepted for dependencies document.", nil)
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

	res, err := h.Store.Upload(c.Request.Context(), data, fileHeader.Filename, c.PostForm("description"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientText):
			respond.Error(c, http.StatusUnprocessableEntity, "insufficient_text", "Could not extract sufficient text from the PDF", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "kb_processing_failed", err.Error(), nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, uploadResponse{
		Message:           res.Message,
		Filename:          res.Filename,
		TextLength:        res.TextLength,
		KnowledgeBaseInfo: h.Store.Info(),
	})
}

func (h *Handler) info(c *gin.Context) {
	respond.JSON(c, http.StatusOK, h.Store.Info())
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.Store.Clear(); err != nil {
		respond.Error(c, http.StatusInternalServerError, "kb_clear_failed", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"message": "Knowledge base cleared successfully"})
}
