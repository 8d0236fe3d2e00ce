package exam

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestHandler(repo Repository, predictor Predictor) (*Handler, *echo.Echo) {
	svc := NewService(repo, predictor, zerolog.Nop())
	h := NewHandler(svc, map[string]string{"model_type": "RandomForestClassifier"},
		func(ctx context.Context) string { return "connected" })
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doJSON(e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	_, e := newTestHandler(nil, &mockPredictor{healthy: true})

	rec := doJSON(e, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", body["status"])
	}
	if body["service"] != "FetalCare Prediction API" {
		t.Errorf("unexpected service name: %v", body["service"])
	}
	if body["model_loaded"] != true {
		t.Errorf("expected model_loaded true, got %v", body["model_loaded"])
	}
	if body["database_status"] != "connected" {
		t.Errorf("expected database_status connected, got %v", body["database_status"])
	}
}

func TestHealth_Degraded(t *testing.T) {
	tests := []struct {
		name     string
		healthy  bool
		dbStatus string
	}{
		{"model down", false, "connected"},
		{"database down", true, "disconnected"},
		{"both down", false, "disconnected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(nil, &mockPredictor{healthy: tt.healthy}, zerolog.Nop())
			h := NewHandler(svc, nil, func(ctx context.Context) string { return tt.dbStatus })
			e := echo.New()
			h.RegisterRoutes(e)

			rec := doJSON(e, http.MethodGet, "/health", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body["status"] != "degraded" {
				t.Errorf("expected status degraded, got %v", body["status"])
			}
		})
	}
}

func TestPredict_Success(t *testing.T) {
	recordID := uuid.New()
	repo := &mockRepo{
		insertFn: func(ctx context.Context, rec *ExamRecord) (uuid.UUID, error) {
			return recordID, nil
		},
	}
	_, e := newTestHandler(repo, &mockPredictor{result: normalInference()})

	rec := doJSON(e, http.MethodPost, "/predict", fullParams())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["prediction"] != float64(1) {
		t.Errorf("expected prediction 1, got %v", body["prediction"])
	}
	if body["status"] != "Normal" {
		t.Errorf("expected status Normal, got %v", body["status"])
	}
	if body["confidence"] != 92.4 {
		t.Errorf("expected confidence 92.4, got %v", body["confidence"])
	}
	if body["saved_to_database"] != true {
		t.Errorf("expected saved_to_database true, got %v", body["saved_to_database"])
	}
	if body["record_id"] != recordID.String() {
		t.Errorf("expected record_id %s, got %v", recordID, body["record_id"])
	}
	if _, present := body["confidence_estimated"]; present {
		t.Error("confidence_estimated should be omitted when false")
	}
}

func TestPredict_EmptyBody(t *testing.T) {
	_, e := newTestHandler(nil, &mockPredictor{})

	rec := doJSON(e, http.MethodPost, "/predict", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPredict_TooManyMissingFields(t *testing.T) {
	_, e := newTestHandler(nil, &mockPredictor{})

	rec := doJSON(e, http.MethodPost, "/predict", map[string]any{"baseline_value": 120})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPredict_ModelUnavailable(t *testing.T) {
	_, e := newTestHandler(nil, &mockPredictor{err: ErrModelUnavailable})

	rec := doJSON(e, http.MethodPost, "/predict", fullParams())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestPredict_StorageFailureStill200(t *testing.T) {
	repo := &mockRepo{
		insertFn: func(ctx context.Context, rec *ExamRecord) (uuid.UUID, error) {
			return uuid.Nil, ErrStorageUnavailable
		},
	}
	_, e := newTestHandler(repo, &mockPredictor{result: normalInference()})

	rec := doJSON(e, http.MethodPost, "/predict", fullParams())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite storage failure, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["saved_to_database"] != false {
		t.Errorf("expected saved_to_database false, got %v", body["saved_to_database"])
	}
	if body["storage_error"] == nil || body["storage_error"] == "" {
		t.Error("expected storage_error in response")
	}
}

func TestListRecords(t *testing.T) {
	repo := &mockRepo{
		searchFn: func(ctx context.Context, f SearchFilter, limit, skip int) ([]*ExamRecord, int, error) {
			if f.CPF != "123" {
				t.Errorf("expected cpf filter 123, got %q", f.CPF)
			}
			if f.HealthStatus != StatusNormal {
				t.Errorf("expected status filter Normal, got %q", f.HealthStatus)
			}
			if limit != 5 || skip != 10 {
				t.Errorf("expected limit=5 skip=10, got limit=%d skip=%d", limit, skip)
			}
			return []*ExamRecord{{ID: uuid.New()}}, 1, nil
		},
	}
	_, e := newTestHandler(repo, &mockPredictor{})

	rec := doJSON(e, http.MethodGet, "/records?cpf=123&status=Normal&limit=5&skip=10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["total"] != float64(1) {
		t.Errorf("expected total 1, got %v", body["total"])
	}
	records, ok := body["records"].([]any)
	if !ok || len(records) != 1 {
		t.Errorf("expected 1 record, got %v", body["records"])
	}
}

func TestListRecords_EmptyStore(t *testing.T) {
	repo := &mockRepo{
		searchFn: func(ctx context.Context, f SearchFilter, limit, skip int) ([]*ExamRecord, int, error) {
			return nil, 0, nil
		},
	}
	_, e := newTestHandler(repo, &mockPredictor{})

	rec := doJSON(e, http.MethodGet, "/records", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	records, ok := body["records"].([]any)
	if !ok {
		t.Fatalf("expected records to serialize as an array, got %T", body["records"])
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestListRecords_NoStore(t *testing.T) {
	_, e := newTestHandler(nil, &mockPredictor{})

	rec := doJSON(e, http.MethodGet, "/records", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestGetRecord(t *testing.T) {
	id := uuid.New()
	repo := &mockRepo{
		getFn: func(ctx context.Context, gotID uuid.UUID) (*ExamRecord, error) {
			if gotID != id {
				t.Errorf("expected id %s, got %s", id, gotID)
			}
			return &ExamRecord{ID: gotID}, nil
		},
	}
	_, e := newTestHandler(repo, &mockPredictor{})

	rec := doJSON(e, http.MethodGet, "/records/"+id.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGetRecord_NotFound(t *testing.T) {
	repo := &mockRepo{
		getFn: func(ctx context.Context, id uuid.UUID) (*ExamRecord, error) {
			return nil, ErrNotFound
		},
	}
	_, e := newTestHandler(repo, &mockPredictor{})

	rec := doJSON(e, http.MethodGet, "/records/"+uuid.New().String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetRecord_InvalidID(t *testing.T) {
	_, e := newTestHandler(&mockRepo{}, &mockPredictor{})

	rec := doJSON(e, http.MethodGet, "/records/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateRecordHandler(t *testing.T) {
	id := uuid.New()
	repo := &mockRepo{
		updateFn: func(ctx context.Context, gotID uuid.UUID, u ExamUpdate) (*ExamRecord, error) {
			if u.PatientName == nil || *u.PatientName != "Nome Corrigido" {
				t.Error("expected patient name in update payload")
			}
			return &ExamRecord{ID: gotID}, nil
		},
	}
	_, e := newTestHandler(repo, &mockPredictor{})

	rec := doJSON(e, http.MethodPut, "/records/"+id.String(),
		map[string]any{"patient_name": "Nome Corrigido"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateRecordHandler_EmptyPayload(t *testing.T) {
	_, e := newTestHandler(&mockRepo{}, &mockPredictor{})

	rec := doJSON(e, http.MethodPut, "/records/"+uuid.New().String(), map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteRecordHandler(t *testing.T) {
	repo := &mockRepo{
		deleteFn: func(ctx context.Context, id uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	_, e := newTestHandler(repo, &mockPredictor{})

	rec := doJSON(e, http.MethodDelete, "/records/"+uuid.New().String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestDeleteRecordHandler_NotFound(t *testing.T) {
	repo := &mockRepo{
		deleteFn: func(ctx context.Context, id uuid.UUID) (bool, error) {
			return false, nil
		},
	}
	_, e := newTestHandler(repo, &mockPredictor{})

	rec := doJSON(e, http.MethodDelete, "/records/"+uuid.New().String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRecordStatsHandler(t *testing.T) {
	repo := &mockRepo{
		countFn: func(ctx context.Context, f SearchFilter) (int, error) { return 7, nil },
		aggregateFn: func(ctx context.Context) ([]StatusStats, error) {
			return []StatusStats{{Status: StatusNormal, Count: 7, MeanConfidence: 90}}, nil
		},
		byRiskFn: func(ctx context.Context) (map[string]int, error) {
			return map[string]int{RiskLow: 7}, nil
		},
	}
	_, e := newTestHandler(repo, &mockPredictor{})

	rec := doJSON(e, http.MethodGet, "/records/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["total_records"] != float64(7) {
		t.Errorf("expected total_records 7, got %v", body["total_records"])
	}
}

func TestTestScenariosHandler(t *testing.T) {
	_, e := newTestHandler(nil, &mockPredictor{})

	rec := doJSON(e, http.MethodGet, "/test-scenarios", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]Scenario
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body) != 3 {
		t.Errorf("expected 3 scenarios, got %d", len(body))
	}
}

func TestModelInfoHandler(t *testing.T) {
	_, e := newTestHandler(nil, &mockPredictor{healthy: true})

	rec := doJSON(e, http.MethodGet, "/model-info", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["model_loaded"] != true {
		t.Errorf("expected model_loaded true, got %v", body["model_loaded"])
	}
	model, ok := body["model"].(map[string]any)
	if !ok || model["model_type"] != "RandomForestClassifier" {
		t.Errorf("unexpected model metadata: %v", body["model"])
	}
}
