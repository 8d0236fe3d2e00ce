package exam

// Clinical risk tiers derived from classifier confidence.
const (
	StatusNormal   = "Normal"
	StatusAtRisk   = "Em Risco"
	StatusCritical = "Risco Crítico"

	RiskLow      = "BAIXO"
	RiskModerate = "MODERADO"
	RiskCritical = "CRÍTICO"
)

// ClassifyConfidence maps the classifier confidence (0-100 scale) to a
// clinical risk tier. The thresholds are clinical policy: a low-confidence
// verdict means the trace did not look cleanly like any class, which is
// itself the warning sign.
//
//	confidence <= 55        -> Risco Crítico / CRÍTICO
//	55 < confidence <= 65   -> Em Risco      / MODERADO
//	confidence > 65         -> Normal        / BAIXO
//
// The function is total and memoryless; no patient history or hysteresis is
// involved.
func ClassifyConfidence(confidence float64) RiskAssessment {
	switch {
	case confidence <= 55:
		return RiskAssessment{HealthStatus: StatusCritical, RiskLevel: RiskCritical, ConfidenceValue: confidence}
	case confidence <= 65:
		return RiskAssessment{HealthStatus: StatusAtRisk, RiskLevel: RiskModerate, ConfidenceValue: confidence}
	default:
		return RiskAssessment{HealthStatus: StatusNormal, RiskLevel: RiskLow, ConfidenceValue: confidence}
	}
}
