package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agrostock_backend/internal/models"
	"agrostock_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStockService returns the configured error from every mutation and
// records the last request it saw.
type stubStockService struct {
	err error

	lastHarvest *services.RecordHarvestRequest
	lastKind    models.EventKind
	lastEventID int64
	lastNewQty  float64
}

func (s *stubStockService) RecordHarvest(req services.RecordHarvestRequest) error {
	s.lastHarvest = &req
	return s.err
}

func (s *stubStockService) RecordSale(req services.RecordSaleRequest) error { return s.err }

func (s *stubStockService) RecordLoss(req services.RecordLossRequest) error { return s.err }

func (s *stubStockService) UpdateEvent(kind models.EventKind, eventID int64, newQuantityKg float64) error {
	s.lastKind, s.lastEventID, s.lastNewQty = kind, eventID, newQuantityKg
	return s.err
}

func (s *stubStockService) DeleteEvent(kind models.EventKind, eventID int64) error {
	s.lastKind, s.lastEventID = kind, eventID
	return s.err
}

func (s *stubStockService) GetHarvestHistory() ([]models.HarvestRecord, error) { return nil, s.err }
func (s *stubStockService) GetSaleHistory() ([]models.SaleRecord, error)       { return nil, s.err }
func (s *stubStockService) GetLossHistory() ([]models.LossRecord, error)       { return nil, s.err }

func newStockRouter(stub *stubStockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := NewStockHandler(stub)
	engine.POST("/harvests", handler.CreateHarvest)
	engine.POST("/sales", handler.CreateSale)
	engine.PUT("/sales/:id", handler.UpdateSale)
	engine.DELETE("/losses/:id", handler.DeleteLoss)
	return engine
}

func performJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func errorBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error
}

func TestCreateHarvestSuccess(t *testing.T) {
	stub := &stubStockService{}
	recorder := performJSON(t, newStockRouter(stub), http.MethodPost, "/harvests", `{"variety_id": 3, "quantity_kg": 12.5}`)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	require.NotNil(t, stub.lastHarvest)
	assert.Equal(t, int64(3), stub.lastHarvest.VarietyID)
	assert.Equal(t, 12.5, stub.lastHarvest.QuantityKg)
}

func TestCreateHarvestRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing quantity", `{"variety_id": 3}`},
		{"zero quantity", `{"variety_id": 3, "quantity_kg": 0}`},
		{"negative quantity", `{"variety_id": 3, "quantity_kg": -4}`},
		{"malformed JSON", `{"variety_id": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubStockService{}
			recorder := performJSON(t, newStockRouter(stub), http.MethodPost, "/harvests", tt.body)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, "VALIDATION_FAILED", errorBody(t, recorder)["code"])
			assert.Nil(t, stub.lastHarvest, "service must not be called on invalid input")
		})
	}
}

func TestCreateSaleRequiresUnitPrice(t *testing.T) {
	recorder := performJSON(t, newStockRouter(&stubStockService{}), http.MethodPost, "/sales",
		`{"variety_id": 3, "quantity_kg": 5}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// An explicit zero price is a valid giveaway sale.
	recorder = performJSON(t, newStockRouter(&stubStockService{}), http.MethodPost, "/sales",
		`{"variety_id": 3, "quantity_kg": 5, "unit_price": 0}`)
	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestCreateSaleMapsBusinessErrors(t *testing.T) {
	stub := &stubStockService{err: services.ErrInsufficientStock}
	recorder := performJSON(t, newStockRouter(stub), http.MethodPost, "/sales",
		`{"variety_id": 3, "quantity_kg": 50, "unit_price": 400}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := errorBody(t, recorder)
	assert.Equal(t, "CONFLICT", body["code"])
	assert.Contains(t, body["message"], "insufficient stock")
}

func TestCreateSaleMapsNotFound(t *testing.T) {
	stub := &stubStockService{err: services.ErrVarietyNotFound}
	recorder := performJSON(t, newStockRouter(stub), http.MethodPost, "/sales",
		`{"variety_id": 999, "quantity_kg": 5, "unit_price": 100}`)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "NOT_FOUND", errorBody(t, recorder)["code"])
}

func TestCreateSaleHidesInternalErrors(t *testing.T) {
	stub := &stubStockService{err: assert.AnError}
	recorder := performJSON(t, newStockRouter(stub), http.MethodPost, "/sales",
		`{"variety_id": 3, "quantity_kg": 5, "unit_price": 100}`)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	body := errorBody(t, recorder)
	assert.Equal(t, "Internal server error", body["message"], "internal details must not leak")
}

func TestUpdateSaleParsesPathAndBody(t *testing.T) {
	stub := &stubStockService{}
	recorder := performJSON(t, newStockRouter(stub), http.MethodPut, "/sales/42", `{"quantity_kg": 17}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, models.KindSale, stub.lastKind)
	assert.Equal(t, int64(42), stub.lastEventID)
	assert.Equal(t, 17.0, stub.lastNewQty)
}

func TestUpdateSaleRejectsBadID(t *testing.T) {
	recorder := performJSON(t, newStockRouter(&stubStockService{}), http.MethodPut, "/sales/abc", `{"quantity_kg": 17}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDeleteLossRoutesKindAndID(t *testing.T) {
	stub := &stubStockService{}
	recorder := performJSON(t, newStockRouter(stub), http.MethodDelete, "/losses/7", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, models.KindLoss, stub.lastKind)
	assert.Equal(t, int64(7), stub.lastEventID)
}
