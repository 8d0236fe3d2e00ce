package exam

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fetalcare/fetalcare/pkg/pagination"
)

// Handler exposes the exam pipeline over HTTP.
type Handler struct {
	svc       *Service
	modelInfo any
	dbStatus  func(ctx context.Context) string
}

// NewHandler wires the service plus the informational collaborators: the
// static model metadata and a database status probe for /health.
func NewHandler(svc *Service, modelInfo any, dbStatus func(ctx context.Context) string) *Handler {
	return &Handler{svc: svc, modelInfo: modelInfo, dbStatus: dbStatus}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.POST("/predict", h.Predict)
	e.GET("/records", h.ListRecords)
	e.GET("/records/stats", h.RecordStats)
	e.GET("/records/:id", h.GetRecord)
	e.PUT("/records/:id", h.UpdateRecord)
	e.DELETE("/records/:id", h.DeleteRecord)
	e.GET("/test-scenarios", h.TestScenarios)
	e.GET("/model-info", h.ModelInfo)
}

func (h *Handler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	modelLoaded := h.svc.ModelHealthy(ctx)
	dbStatus := h.dbStatus(ctx)

	// The service keeps answering predict requests while storage is down, so
	// a broken dependency degrades the status rather than failing the check.
	status := "healthy"
	if !modelLoaded || dbStatus == "disconnected" {
		status = "degraded"
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":          status,
		"service":         "FetalCare Prediction API",
		"model_loaded":    modelLoaded,
		"database_status": dbStatus,
		"timestamp":       time.Now().UTC(),
	})
}

// predictResponse is the /predict payload. Field names follow the wire
// contract consumed by the monitoring front end.
type predictResponse struct {
	Prediction          int        `json:"prediction"`
	Status              string     `json:"status"`
	Description         string     `json:"description"`
	Color               string     `json:"color,omitempty"`
	Confidence          float64    `json:"confidence"`
	ConfidenceEstimated bool       `json:"confidence_estimated,omitempty"`
	Recommendations     []string   `json:"recommendations"`
	Timestamp           time.Time  `json:"timestamp"`
	SavedToDatabase     bool       `json:"saved_to_database"`
	RecordID            *uuid.UUID `json:"record_id,omitempty"`
	StorageError        string     `json:"storage_error,omitempty"`
	MissingFields       []string   `json:"missing_fields,omitempty"`
}

func (h *Handler) Predict(c echo.Context) error {
	var raw map[string]any
	if err := c.Bind(&raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	if len(raw) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no data provided")
	}

	outcome, err := h.svc.RunExam(c.Request().Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, ErrTooManyMissingFields):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrModelUnavailable), errors.Is(err, ErrInferenceFailed):
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, predictResponse{
		Prediction:          outcome.Inference.Prediction,
		Status:              outcome.Inference.Status,
		Description:         outcome.Inference.Description,
		Color:               outcome.Inference.Color,
		Confidence:          outcome.Inference.Confidence,
		ConfidenceEstimated: outcome.Inference.ConfidenceEstimated,
		Recommendations:     outcome.Inference.Recommendations,
		Timestamp:           outcome.Timestamp,
		SavedToDatabase:     outcome.SavedToDatabase,
		RecordID:            outcome.RecordID,
		StorageError:        outcome.StorageError,
		MissingFields:       outcome.MissingFields,
	})
}

func (h *Handler) ListRecords(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := SearchFilter{
		CPF:          c.QueryParam("cpf"),
		HealthStatus: c.QueryParam("status"),
	}

	records, total, err := h.svc.SearchRecords(c.Request().Context(), filter, pg.Limit, pg.Skip)
	if err != nil {
		if errors.Is(err, ErrStorageUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "record store unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records, total, pg.Limit, pg.Skip))
}

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	rec, err := h.svc.GetRecord(c.Request().Context(), id)
	if err != nil {
		return recordError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) UpdateRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	var u ExamUpdate
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	rec, err := h.svc.UpdateRecord(c.Request().Context(), id, u)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStorageUnavailable) {
			return recordError(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) DeleteRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	deleted, err := h.svc.DeleteRecord(c.Request().Context(), id)
	if err != nil {
		return recordError(err)
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "exam record not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RecordStats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return recordError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) TestScenarios(c echo.Context) error {
	return c.JSON(http.StatusOK, TestScenarios())
}

func (h *Handler) ModelInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"model":        h.modelInfo,
		"model_loaded": h.svc.ModelHealthy(c.Request().Context()),
		"timestamp":    time.Now().UTC(),
	})
}

func recordError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "exam record not found")
	case errors.Is(err, ErrStorageUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "record store unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
