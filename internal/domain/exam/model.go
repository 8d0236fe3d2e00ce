package exam

import (
	"time"

	"github.com/google/uuid"
)

// PatientInfo holds the gestante identity and obstetric context captured with
// every exam. It is embedded in the persisted record and never mutated after
// assembly.
type PatientInfo struct {
	PatientID           string     `json:"patient_id"`
	PatientName         string     `json:"patient_name"`
	PatientCPF          string     `json:"patient_cpf"`
	GestationalAgeWeeks int        `json:"gestational_age"`
	LastMenstrualPeriod *time.Time `json:"last_menstrual_period,omitempty"`
	ExpectedDelivery    *time.Time `json:"expected_delivery,omitempty"`
	BloodType           *string    `json:"blood_type,omitempty"`
	PregnancyNumber     *int       `json:"pregnancy_number,omitempty"`
	RiskFactors         *string    `json:"risk_factors,omitempty"`
	PatientAge          *int       `json:"patient_age,omitempty"`
	PatientPhone        *string    `json:"patient_phone,omitempty"`
	PatientAddress      *string    `json:"patient_address,omitempty"`
	EmergencyContact    *string    `json:"emergency_contact,omitempty"`
	HealthInsurance     *string    `json:"health_insurance,omitempty"`
}

// MonitoringParameters are the 21 CTG signal statistics consumed by the
// classifier. Everything except the tendency is numeric; absent fields
// default to zero during feature extraction.
type MonitoringParameters struct {
	BaselineValue                  float64 `json:"baseline_value"`
	Accelerations                  float64 `json:"accelerations"`
	FetalMovement                  float64 `json:"fetal_movement"`
	UterineContractions            float64 `json:"uterine_contractions"`
	LightDecelerations             float64 `json:"light_decelerations"`
	SevereDecelerations            float64 `json:"severe_decelerations"`
	ProlonguedDecelerations        float64 `json:"prolongued_decelerations"`
	AbnormalShortTermVariability   float64 `json:"abnormal_short_term_variability"`
	MeanShortTermVariability       float64 `json:"mean_value_of_short_term_variability"`
	PctAbnormalLongTermVariability float64 `json:"percentage_of_time_with_abnormal_long_term_variability"`
	MeanLongTermVariability        float64 `json:"mean_value_of_long_term_variability"`
	HistogramWidth                 float64 `json:"histogram_width"`
	HistogramMin                   float64 `json:"histogram_min"`
	HistogramMax                   float64 `json:"histogram_max"`
	HistogramPeaks                 float64 `json:"histogram_number_of_peaks"`
	HistogramZeroes                float64 `json:"histogram_number_of_zeroes"`
	HistogramMode                  float64 `json:"histogram_mode"`
	HistogramMean                  float64 `json:"histogram_mean"`
	HistogramMedian                float64 `json:"histogram_median"`
	HistogramVariance              float64 `json:"histogram_variance"`
	HistogramTendency              string  `json:"histogram_tendency,omitempty"`
}

// InferenceResult is the classifier output mapped to the clinical vocabulary.
// Confidence is on the 0-100 percentage scale. ConfidenceEstimated marks the
// fixed fallback value used when the model exposes no probability interface.
type InferenceResult struct {
	Prediction          int      `json:"prediction"`
	Confidence          float64  `json:"confidence"`
	ConfidenceEstimated bool     `json:"confidence_estimated,omitempty"`
	Status              string   `json:"status"`
	Description         string   `json:"description"`
	Color               string   `json:"color,omitempty"`
	Recommendations     []string `json:"recommendations"`
}

// RiskAssessment is derived deterministically from the inference confidence
// and is never persisted without its InferenceResult.
type RiskAssessment struct {
	HealthStatus    string  `json:"status_saude"`
	RiskLevel       string  `json:"nivel_risco"`
	ConfidenceValue float64 `json:"confidence_value"`
}

// ExamRecord is the unit of persistence: one monitoring session, its
// classifier verdict and the derived risk tier.
type ExamRecord struct {
	ID                uuid.UUID            `json:"id"`
	Patient           PatientInfo          `json:"dados_gestante"`
	Parameters        MonitoringParameters `json:"parametros_monitoramento"`
	Inference         InferenceResult      `json:"resultado_ml"`
	Risk              RiskAssessment       `json:"saude_feto"`
	ExamAt            time.Time            `json:"data_exame"`
	ResponsibleDoctor *string              `json:"medico_responsavel,omitempty"`
	Observations      *string              `json:"observacoes,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// ExamUpdate carries the merge-semantics partial update: only non-nil fields
// change, and updated_at is always bumped.
type ExamUpdate struct {
	PatientName       *string `json:"patient_name,omitempty"`
	ResponsibleDoctor *string `json:"medico_responsavel,omitempty"`
	Observations      *string `json:"observacoes,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u ExamUpdate) IsEmpty() bool {
	return u.PatientName == nil && u.ResponsibleDoctor == nil && u.Observations == nil
}

// SearchFilter narrows record listings. CPF is a partial, case-insensitive
// match; HealthStatus is exact.
type SearchFilter struct {
	CPF          string
	HealthStatus string
}

// StatusStats is one row of the by-status aggregation.
type StatusStats struct {
	Status         string  `json:"status"`
	Count          int     `json:"count"`
	MeanConfidence float64 `json:"mean_confidence"`
}
