package registry

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/honterplatform/icetex/internal/report"
	"github.com/honterplatform/icetex/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the registry. Registry is nil when no
// workbook is configured; search endpoints answer 503 in that case.
type Handler struct {
	Registry *Registry
}

// NewHandler constructs a Handler.
func NewHandler(r *Registry) *Handler {
	return &Handler{Registry: r}
}

// RegisterRoutes attaches registry routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/registry/search", h.search)
	rg.GET("/registry/search/report", h.searchReport)
	rg.GET("/registry/info", h.info)
}

type searchResponse struct {
	Query   string   `json:"query"`
	Count   int      `json:"count"`
	Results []Record `json:"results"`
}

func (h *Handler) available(c *gin.Context) bool {
	if h.Registry == nil {
		respond.Error(c, http.StatusServiceUnavailable, "registry_unavailable", "contractor registry is not configured", nil)
		return false
	}
	return true
}

func (h *Handler) query(c *gin.Context) (string, bool) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "query parameter q is required", nil)
		return "", false
	}
	return q, true
}

func (h *Handler) search(c *gin.Context) {
	if !h.available(c) {
		return
	}
	q, ok := h.query(c)
	if !ok {
		return
	}

	results := h.Registry.Search(q)
	if results == nil {
		results = []Record{}
	}
	respond.JSON(c, http.StatusOK, searchResponse{Query: q, Count: len(results), Results: results})
}

func (h *Handler) searchReport(c *gin.Context) {
	if !h.available(c) {
		return
	}
	q, ok := h.query(c)
	if !ok {
		return
	}

	pdf, err := report.BuildSearchReport(q, toReportResults(h.Registry.Search(q)))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "report_failed", err.Error(), nil)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="resultado_busqueda.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) info(c *gin.Context) {
	if h.Registry == nil {
		respond.JSON(c, http.StatusOK, Info{Columns: []string{}})
		return
	}
	respond.JSON(c, http.StatusOK, h.Registry.Info())
}
