package exam

import "testing"

func TestClassifyConfidence(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		wantStatus string
		wantLevel  string
	}{
		{"zero", 0, StatusCritical, RiskCritical},
		{"low", 42.3, StatusCritical, RiskCritical},
		{"critical boundary", 55.0, StatusCritical, RiskCritical},
		{"just above critical", 55.1, StatusAtRisk, RiskModerate},
		{"moderate", 60, StatusAtRisk, RiskModerate},
		{"moderate boundary", 65.0, StatusAtRisk, RiskModerate},
		{"just above moderate", 65.1, StatusNormal, RiskLow},
		{"high", 92.7, StatusNormal, RiskLow},
		{"full", 100, StatusNormal, RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyConfidence(tt.confidence)
			if got.HealthStatus != tt.wantStatus {
				t.Errorf("ClassifyConfidence(%f).HealthStatus = %q, want %q",
					tt.confidence, got.HealthStatus, tt.wantStatus)
			}
			if got.RiskLevel != tt.wantLevel {
				t.Errorf("ClassifyConfidence(%f).RiskLevel = %q, want %q",
					tt.confidence, got.RiskLevel, tt.wantLevel)
			}
			if got.ConfidenceValue != tt.confidence {
				t.Errorf("ClassifyConfidence(%f).ConfidenceValue = %f",
					tt.confidence, got.ConfidenceValue)
			}
		})
	}
}

func TestAssembleRecord(t *testing.T) {
	patient := PatientInfo{
		PatientID:   "P-1",
		PatientName: "Maria Silva",
		PatientCPF:  "12345678901",
	}
	inference := InferenceResult{
		Prediction: 1,
		Confidence: 87.5,
		Status:     "Normal",
	}
	doctor := "Dr. Souza"

	rec := AssembleRecord(patient, MonitoringParameters{BaselineValue: 140}, inference, RecordMeta{
		ResponsibleDoctor: &doctor,
	})

	if rec.Risk.HealthStatus != StatusNormal {
		t.Errorf("expected derived status Normal, got %q", rec.Risk.HealthStatus)
	}
	if rec.Risk.ConfidenceValue != 87.5 {
		t.Errorf("expected confidence 87.5, got %f", rec.Risk.ConfidenceValue)
	}
	if rec.ExamAt.IsZero() {
		t.Error("expected exam timestamp to be stamped")
	}
	if rec.ExamAt.Location() != rec.ExamAt.UTC().Location() {
		t.Error("expected UTC exam timestamp")
	}
	if rec.ResponsibleDoctor == nil || *rec.ResponsibleDoctor != "Dr. Souza" {
		t.Error("expected responsible doctor to be carried")
	}
	if rec.Observations != nil {
		t.Error("expected nil observations when not supplied")
	}
}

func TestAssembleRecord_LowConfidenceIsCritical(t *testing.T) {
	rec := AssembleRecord(PatientInfo{}, MonitoringParameters{},
		InferenceResult{Prediction: 1, Confidence: 50}, RecordMeta{})

	if rec.Risk.HealthStatus != StatusCritical {
		t.Errorf("expected Risco Crítico for confidence 50, got %q", rec.Risk.HealthStatus)
	}
	if rec.Risk.RiskLevel != RiskCritical {
		t.Errorf("expected CRÍTICO, got %q", rec.Risk.RiskLevel)
	}
}
