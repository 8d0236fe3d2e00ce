package exam

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Predictor is the inference boundary consumed by the service. The concrete
// gateway lives in internal/platform/inference.
type Predictor interface {
	Predict(ctx context.Context, vec FeatureVector) (InferenceResult, error)
	Healthy(ctx context.Context) bool
}

// Service orchestrates the exam pipeline: validate and extract features,
// call the classifier, derive the risk tier, assemble and persist the record.
// Stateless per request; repo may be nil when persistence is disabled.
type Service struct {
	repo      Repository
	predictor Predictor
	log       zerolog.Logger
}

func NewService(repo Repository, predictor Predictor, log zerolog.Logger) *Service {
	return &Service{repo: repo, predictor: predictor, log: log}
}

// PersistenceEnabled reports whether exam records are being stored.
func (s *Service) PersistenceEnabled() bool {
	return s.repo != nil
}

// ModelHealthy pings the classifier service.
func (s *Service) ModelHealthy(ctx context.Context) bool {
	return s.predictor.Healthy(ctx)
}

// PredictionOutcome is the composed result of one exam submission.
type PredictionOutcome struct {
	Inference       InferenceResult
	Risk            RiskAssessment
	MissingFields   []string
	Timestamp       time.Time
	SavedToDatabase bool
	RecordID        *uuid.UUID
	StorageError    string
}

// RunExam drives one submission through the pipeline. Validation and
// inference failures abort before any persistence attempt. A persistence
// failure does not fail the exam: the clinical result is still returned with
// SavedToDatabase=false, because result delivery takes priority over
// archival. No stage is retried.
func (s *Service) RunExam(ctx context.Context, raw map[string]any) (*PredictionOutcome, error) {
	vec, missing, err := ExtractFeatures(raw)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		s.log.Warn().Strs("missing_fields", missing).Msg("monitoring parameters defaulted to zero")
	}

	inferred, err := s.predictor.Predict(ctx, vec)
	if err != nil {
		return nil, err
	}

	outcome := &PredictionOutcome{
		Inference:     inferred,
		Risk:          ClassifyConfidence(inferred.Confidence),
		MissingFields: missing,
		Timestamp:     time.Now().UTC(),
	}

	if s.repo == nil {
		return outcome, nil
	}

	record := AssembleRecord(patientFromMap(raw), ParametersFromMap(raw), inferred, metaFromMap(raw))
	id, err := s.repo.Insert(ctx, record)
	if err != nil {
		s.log.Error().Err(err).Msg("exam record not persisted")
		outcome.StorageError = err.Error()
		return outcome, nil
	}

	outcome.SavedToDatabase = true
	outcome.RecordID = &id
	s.log.Info().Stringer("record_id", id).
		Str("health_status", outcome.Risk.HealthStatus).
		Float64("confidence", inferred.Confidence).
		Msg("exam record persisted")
	return outcome, nil
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*ExamRecord, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) SearchRecords(ctx context.Context, f SearchFilter, limit, skip int) ([]*ExamRecord, int, error) {
	if s.repo == nil {
		return nil, 0, ErrStorageUnavailable
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	return s.repo.Search(ctx, f, limit, skip)
}

func (s *Service) UpdateRecord(ctx context.Context, id uuid.UUID, u ExamUpdate) (*ExamRecord, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	if u.IsEmpty() {
		return nil, fmt.Errorf("no updatable fields supplied")
	}
	return s.repo.Update(ctx, id, u)
}

func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) (bool, error) {
	if s.repo == nil {
		return false, ErrStorageUnavailable
	}
	return s.repo.Delete(ctx, id)
}

// RecordStats is the /records/stats payload.
type RecordStats struct {
	TotalRecords       int            `json:"total_records"`
	ByHealthStatus     map[string]int `json:"by_health_status"`
	ByRiskLevel        map[string]int `json:"by_risk_level"`
	StatusDistribution []StatusStats  `json:"status_distribution"`
	Timestamp          time.Time      `json:"timestamp"`
}

func (s *Service) Stats(ctx context.Context) (*RecordStats, error) {
	if s.repo == nil {
		return nil, ErrStorageUnavailable
	}
	total, err := s.repo.Count(ctx, SearchFilter{})
	if err != nil {
		return nil, err
	}
	distribution, err := s.repo.AggregateByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byRisk, err := s.repo.CountByRiskLevel(ctx)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int, len(distribution))
	for _, d := range distribution {
		byStatus[d.Status] = d.Count
	}
	return &RecordStats{
		TotalRecords:       total,
		ByHealthStatus:     byStatus,
		ByRiskLevel:        byRisk,
		StatusDistribution: distribution,
		Timestamp:          time.Now().UTC(),
	}, nil
}

// patientFromMap pulls the gestante identity out of the flattened request
// body, substituting the original system's placeholders for absent identity
// fields so an exam without registration data can still be archived.
func patientFromMap(raw map[string]any) PatientInfo {
	p := PatientInfo{
		PatientID:   stringOr(raw, "patient_id", "AUTO_"+time.Now().UTC().Format("20060102_150405")),
		PatientName: stringOr(raw, "patient_name", "Paciente Não Identificado"),
		PatientCPF:  stringOr(raw, "patient_cpf", "00000000000"),
	}
	if v, ok := raw["gestational_age"]; ok {
		if f, err := toFloat(v); err == nil {
			p.GestationalAgeWeeks = int(f)
		}
	}
	if v, ok := raw["patient_age"]; ok {
		if f, err := toFloat(v); err == nil {
			age := int(f)
			p.PatientAge = &age
		}
	}
	p.BloodType = optString(raw, "blood_type")
	p.RiskFactors = optString(raw, "risk_factors")
	p.PatientPhone = optString(raw, "patient_phone")
	p.PatientAddress = optString(raw, "patient_address")
	p.EmergencyContact = optString(raw, "emergency_contact")
	p.HealthInsurance = optString(raw, "health_insurance")
	if v, ok := raw["pregnancy_number"]; ok {
		if f, err := toFloat(v); err == nil {
			n := int(f)
			p.PregnancyNumber = &n
		}
	}
	return p
}

func metaFromMap(raw map[string]any) RecordMeta {
	return RecordMeta{
		ResponsibleDoctor: optString(raw, "medico_responsavel"),
		Observations:      optString(raw, "observacoes"),
	}
}

func stringOr(raw map[string]any, key, fallback string) string {
	if s, ok := raw[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func optString(raw map[string]any, key string) *string {
	if s, ok := raw[key].(string); ok && s != "" {
		return &s
	}
	return nil
}
