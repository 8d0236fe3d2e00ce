package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AuditEntry represents one access to patient monitoring data: who asked for
// what, when, from where, and what the outcome was. It is kept separate from
// the request log so the clinical access trail survives log-level filtering.
type AuditEntry struct {
	RecordID   string
	PatientCPF string
	Action     string // read, create, update, delete, search
	IPAddress  string
	UserAgent  string
	Path       string
	Method     string
	Timestamp  time.Time
	RequestID  string
	StatusCode int
}

// AuditRecorder persists audit entries. The middleware falls back to
// structured logging when no recorder is provided; tests supply mocks.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit returns Echo middleware that logs every access to exam records and
// predictions. Only /records and /predict paths are audited; health checks
// and metadata endpoints are not patient data.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if !isAuditablePath(path) {
				return next(c)
			}

			// Execute the handler first so we capture the response status
			err := next(c)

			entry := AuditEntry{
				Timestamp:  time.Now().UTC(),
				Path:       path,
				Method:     req.Method,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				StatusCode: c.Response().Status,
				Action:     httpMethodToAction(req.Method),
				RecordID:   recordIDFromPath(path),
				PatientCPF: maskCPF(c.QueryParam("cpf")),
			}
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			if len(recorders) > 0 && recorders[0] != nil {
				if recErr := recorders[0].RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "record_access").
				Str("request_id", entry.RequestID).
				Str("record_id", entry.RecordID).
				Str("patient_cpf", entry.PatientCPF).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("record_access")

			return err
		}
	}
}

func isAuditablePath(path string) bool {
	return path == "/predict" || path == "/records" || strings.HasPrefix(path, "/records/")
}

func httpMethodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// recordIDFromPath extracts the record ID from /records/<id> paths. The
// /records/stats sub-path is an aggregate, not a record.
func recordIDFromPath(path string) string {
	if !strings.HasPrefix(path, "/records/") {
		return ""
	}
	id := strings.TrimPrefix(path, "/records/")
	if id == "" || id == "stats" || strings.Contains(id, "/") {
		return ""
	}
	return id
}

// maskCPF keeps only the last four digits of a CPF query parameter so the
// audit trail does not duplicate the full document number.
func maskCPF(cpf string) string {
	if cpf == "" {
		return ""
	}
	if len(cpf) <= 4 {
		return cpf
	}
	return "***" + cpf[len(cpf)-4:]
}
