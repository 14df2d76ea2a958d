package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feiralens/internal/analytics"
	"feiralens/internal/dataprocessing"
	"feiralens/internal/pipeline"
	"feiralens/internal/storage"
	"feiralens/pkg/contracts/domain"
)

const ledgerFixture = `Feira 23/08/25
30 porta chaves baleia
50 2 caixa grande
`

func newTestRouter(t *testing.T) (chi.Router, *analytics.Service) {
	t.Helper()

	orchestrator := pipeline.New(nil, dataprocessing.NewLedgerParser(nil, nil),
		dataprocessing.NewTabularImporter(nil, dataprocessing.TabularConfig{}), nil)
	svc := analytics.NewService(nil)
	store, err := storage.NewAnalysisStore(nil, t.TempDir(), false)
	require.NoError(t, err)

	pipelineHandler := NewPipelineHandler(orchestrator, svc, nil)
	analyticsHandler := NewAnalyticsHandler(svc, nil)
	analysesHandler := NewAnalysesHandler(store, pipelineHandler, nil)

	r := chi.NewRouter()
	r.Mount("/api/pipeline", pipelineHandler.Routes())
	r.Mount("/api/analytics", analyticsHandler.Routes())
	r.Mount("/api/analyses", analysesHandler.Routes())
	return r, svc
}

func runFixture(t *testing.T, router chi.Router) domain.PipelineResult {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"files": []map[string]string{{"name": "feira.txt", "content": ledgerFixture}},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result domain.PipelineResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestPipelineRunEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	result := runFixture(t, router)
	require.Len(t, result.Sales, 1)
	assert.InDelta(t, 80.0, result.Sales[0].TotalValue, 1e-9)
	assert.Equal(t, 1, result.Statistics.SalesGenerated)
}

func TestPipelineRunRejectsEmptyPayload(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/run", bytes.NewReader([]byte(`{"files":[]}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPipelineRunRejectsUnknownExtension(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"files":[{"name":"notas.pdf","content":"x"}]}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/pipeline/run", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLastResultBeforeAnyRun(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pipeline/result", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyticsEndpointsAfterRun(t *testing.T) {
	router, _ := newTestRouter(t)
	runFixture(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/kpis", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var kpis []domain.KPI
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kpis))
	require.NotEmpty(t, kpis)
	assert.Equal(t, "Total Revenue", kpis[0].Label)
	assert.InDelta(t, 80.0, kpis[0].Value, 1e-9)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/items", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []domain.ItemRollup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}

func TestAnalyticsFilterRoundTrip(t *testing.T) {
	router, svc := newTestRouter(t)
	runFixture(t, router)

	body := `{"categories":["Caixa"]}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/analytics/filter", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"Caixa"}, svc.Filter().Categories)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/filter", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Caixa")
}

func TestAnalyticsTrendValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/trend?group=quarter", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/trend?group=month", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalysesLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)
	runFixture(t, router)

	// save
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyses", bytes.NewReader([]byte(`{"name":"agosto"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var saved domain.SavedAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "agosto", saved.Name)
	assert.Equal(t, 1, saved.TotalSales)

	// list
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyses", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var records []domain.SavedAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)

	// get
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/analyses/%s", saved.ID), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// delete
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/analyses/%s", saved.ID), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/analyses/%s", saved.ID), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalysesSaveWithoutRun(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyses", bytes.NewReader([]byte(`{"name":"vazio"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
