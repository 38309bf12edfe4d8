package petitions_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/honterplatform/icetex/internal/classify"
	"github.com/honterplatform/icetex/internal/extract"
	"github.com/honterplatform/icetex/internal/petitions"
)

type fakeClassifier struct {
	result classify.Result
}

func (f *fakeClassifier) ClassifyWithMetadata(ctx context.Context, text string) (classify.Result, classify.Metadata) {
	return f.result, classify.Metadata{
		Model:       "gpt-4-turbo",
		TextLength:  utf8.RuneCountInString(text),
		TextPreview: text,
	}
}

func (f *fakeClassifier) Model() string { return "gpt-4-turbo" }

type fakeExtractor struct {
	text string
}

func (f *fakeExtractor) FromBytes(ctx context.Context, pdfBytes []byte) (extract.Extraction, error) {
	return extract.Extraction{
		Text:   f.text,
		Method: extract.MethodDigital,
		Pages:  1,
		Chars:  utf8.RuneCountInString(f.text),
	}, nil
}

func newRouter(svc *petitions.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	petitions.NewHandler(svc, 10<<20).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func newService(extracted string) *petitions.Service {
	return &petitions.Service{
		Engine: &fakeClassifier{result: classify.Result{
			Dependencia:   "Oficina Asesora Jurídica",
			Confianza:     "88%",
			Motivo:        "Consulta sobre interpretación contractual.",
			PalabrasClave: []string{"contrato"},
		}},
		Extractor: &fakeExtractor{text: extracted},
		Repo:      petitions.NewMemoryRepo(),
	}
}

func uploadRequest(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestClassifyEndpoint(t *testing.T) {
	router := newRouter(newService("Solicito la condonación de mi crédito educativo del fondo territorial."))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "/api/v1/petitions/classify", "peticion.pdf", []byte("%PDF-1.4 fake")))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		ID             string `json:"id"`
		Filename       string `json:"filename"`
		Classification struct {
			Dependencia   string   `json:"dependencia"`
			Confianza     string   `json:"confianza"`
			PalabrasClave []string `json:"palabras_clave"`
		} `json:"classification"`
		Metadata struct {
			Model            string `json:"model"`
			ExtractionMethod string `json:"extraction_method"`
			TextLength       int    `json:"text_length"`
		} `json:"metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ID == "" || body.Filename != "peticion.pdf" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if body.Classification.Dependencia != "Oficina Asesora Jurídica" {
		t.Fatalf("unexpected classification: %+v", body.Classification)
	}
	if body.Metadata.ExtractionMethod != "digital" || body.Metadata.TextLength == 0 {
		t.Fatalf("unexpected metadata: %+v", body.Metadata)
	}
}

func TestClassifyRejectsNonPDF(t *testing.T) {
	router := newRouter(newService("texto largo suficiente para clasificar"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "/api/v1/petitions/classify", "peticion.docx", []byte("contenido")))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Error.Message != "Only PDF files are accepted. Please upload a PDF document." {
		t.Fatalf("unexpected message: %q", errResp.Error.Message)
	}
}

func TestClassifyRejectsEmptyFile(t *testing.T) {
	router := newRouter(newService("texto largo suficiente para clasificar"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "/api/v1/petitions/classify", "peticion.pdf", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestClassifyShortTextReturnsPreview(t *testing.T) {
	router := newRouter(newService("corto"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "/api/v1/petitions/classify", "peticion.pdf", []byte("%PDF-1.4 fake")))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	var errResp struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				ExtractedText string `json:"extracted_text"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Error.Code != "insufficient_text" {
		t.Fatalf("expected insufficient_text, got %q", errResp.Error.Code)
	}
	if errResp.Error.Details.ExtractedText != "corto" {
		t.Fatalf("expected extracted preview, got %q", errResp.Error.Details.ExtractedText)
	}
}

func TestClassifyWithoutEngineReturns503(t *testing.T) {
	svc := newService("texto largo suficiente para clasificar")
	svc.Engine = nil
	router := newRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "/api/v1/petitions/classify", "peticion.pdf", []byte("%PDF-1.4")))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
}

func TestListAndGetPetitions(t *testing.T) {
	svc := newService("Solicito información sobre el estado de mi crédito.")
	router := newRouter(svc)

	for _, name := range []string{"a.pdf", "b.pdf"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, uploadRequest(t, "/api/v1/petitions/classify", name, []byte("%PDF-1.4")))
		if resp.Code != http.StatusOK {
			t.Fatalf("classify %s: status %d", name, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/petitions", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var list struct {
		Count     int `json:"count"`
		Petitions []struct {
			ID       string `json:"id"`
			Filename string `json:"filename"`
		} `json:"petitions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 2 || len(list.Petitions) != 2 {
		t.Fatalf("expected 2 petitions, got %+v", list)
	}

	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, httptest.NewRequest(http.MethodGet, "/api/v1/petitions/"+list.Petitions[0].ID, nil))
	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}

	respMissing := httptest.NewRecorder()
	router.ServeHTTP(respMissing, httptest.NewRequest(http.MethodGet, "/api/v1/petitions/no-such-id", nil))
	if respMissing.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", respMissing.Code)
	}
}

func TestDependenciesEndpoint(t *testing.T) {
	router := newRouter(newService("texto"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/dependencies", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body struct {
		Dependencies []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"dependencies"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode dependencies: %v", err)
	}
	if len(body.Dependencies) != 12 {
		t.Fatalf("expected 12 dependencies, got %d", len(body.Dependencies))
	}
	if body.Dependencies[0].Name != "Oficina Asesora Jurídica" {
		t.Fatalf("unexpected first dependency: %+v", body.Dependencies[0])
	}
}
