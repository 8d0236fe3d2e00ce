package exam

import "time"

// RecordMeta carries the optional operator-supplied metadata for a new exam.
type RecordMeta struct {
	ResponsibleDoctor *string
	Observations      *string
}

// AssembleRecord composes a persistable exam record. The risk assessment is
// derived here from the inference confidence so the two can never disagree,
// and the exam timestamp is stamped server-side in UTC regardless of client
// clock skew.
func AssembleRecord(patient PatientInfo, params MonitoringParameters, inference InferenceResult, meta RecordMeta) *ExamRecord {
	return &ExamRecord{
		Patient:           patient,
		Parameters:        params,
		Inference:         inference,
		Risk:              ClassifyConfidence(inference.Confidence),
		ExamAt:            time.Now().UTC(),
		ResponsibleDoctor: meta.ResponsibleDoctor,
		Observations:      meta.Observations,
	}
}
