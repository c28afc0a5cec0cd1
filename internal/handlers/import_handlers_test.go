package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"agrostock_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubImportService struct {
	summary *services.ImportSummary
	err     error
	read    string
}

func (s *stubImportService) ImportVarieties(r io.Reader) (*services.ImportSummary, error) {
	data, _ := io.ReadAll(r)
	s.read = string(data)
	return s.summary, s.err
}

func newImportRouter(stub *stubImportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/import/varieties", NewImportHandler(stub).ImportVarieties)
	return engine
}

func performUpload(t *testing.T, engine *gin.Engine, fileContent string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "varieties.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(fileContent))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/import/varieties", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestImportVarietiesReportsSummary(t *testing.T) {
	stub := &stubImportService{summary: &services.ImportSummary{
		ImportedCount: 2,
		Errors:        []services.ImportRowError{{Row: 3, Error: "missing product or variety name"}},
	}}
	recorder := performUpload(t, newImportRouter(stub), "Product,Variety\nCabbage,Red Cabbage\n")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Product,Variety\nCabbage,Red Cabbage\n", stub.read)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["imported_count"])
	require.Contains(t, body, "errors")
}

func TestImportVarietiesOmitsEmptyErrorList(t *testing.T) {
	stub := &stubImportService{summary: &services.ImportSummary{ImportedCount: 1}}
	recorder := performUpload(t, newImportRouter(stub), "Product,Variety\nCabbage,Savoy\n")

	assert.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.NotContains(t, body, "errors")
}

func TestImportVarietiesRequiresFile(t *testing.T) {
	req, err := http.NewRequest(http.MethodPost, "/import/varieties", nil)
	require.NoError(t, err)
	recorder := httptest.NewRecorder()
	newImportRouter(&stubImportService{}).ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestImportVarietiesMapsEmptyFileError(t *testing.T) {
	stub := &stubImportService{err: services.ErrEmptyImport}
	recorder := performUpload(t, newImportRouter(stub), "")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := errorBody(t, recorder)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
}
