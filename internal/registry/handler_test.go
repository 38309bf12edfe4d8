package registry_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/honterplatform/icetex/internal/registry"
)

const nameColumn = "CONTRATISTA : NOMBRE COMPLETO O RAZON SOCIAL"

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	rows := [][]any{
		{"No. Cto", nameColumn, "CONTRATISTA: NÚMERO DE IDENTIFICACIÓN"},
		{101, "María Pérez Rodríguez", "1032456789"},
		{102, "Juan Gómez Díaz", "80123456"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "contratos.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}

	reg, err := registry.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return reg
}

func newRouter(reg *registry.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	registry.NewHandler(reg).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestSearchEndpoint(t *testing.T) {
	router := newRouter(newRegistry(t))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/registry/search?q=mar%C3%ADa", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Query   string              `json:"query"`
		Count   int                 `json:"count"`
		Results []map[string]string `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Query != "maría" || body.Count != 1 || len(body.Results) != 1 {
		t.Fatalf("unexpected response: %+v", body)
	}
	if got := body.Results[0][nameColumn]; got != "María Pérez Rodríguez" {
		t.Fatalf("unexpected match: %q", got)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	router := newRouter(newRegistry(t))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/registry/search", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestSearchWithoutRegistryReturns503(t *testing.T) {
	router := newRouter(nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/registry/search?q=ana", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
	var errResp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Error.Code != "registry_unavailable" {
		t.Fatalf("expected registry_unavailable, got %q", errResp.Error.Code)
	}
}

func TestSearchReportReturnsPDF(t *testing.T) {
	router := newRouter(newRegistry(t))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/registry/search/report?q=juan", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", ct)
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("expected attachment disposition, got %q", cd)
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected PDF body")
	}
}

func TestInfoWithoutRegistry(t *testing.T) {
	router := newRouter(nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/registry/info", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var info struct {
		FileExists bool `json:"file_exists"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info.FileExists {
		t.Fatalf("expected file_exists false")
	}
}
