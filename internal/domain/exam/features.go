package exam

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FeatureCount is the fixed length of the classifier input vector.
const FeatureCount = 21

// MaxMissingFields is the tolerance for absent monitoring parameters. A few
// optional fields may be zero-defaulted; wholesale absence indicates a
// malformed request and is rejected.
const MaxMissingFields = 5

// FeatureVector is the position-significant input to the classifier.
type FeatureVector [FeatureCount]float64

// FeatureNames lists the canonical monitoring parameters in the exact order
// the classifier was trained on. Position in this slice is position in the
// feature vector.
var FeatureNames = []string{
	"baseline_value",
	"accelerations",
	"fetal_movement",
	"uterine_contractions",
	"light_decelerations",
	"severe_decelerations",
	"prolongued_decelerations",
	"abnormal_short_term_variability",
	"mean_value_of_short_term_variability",
	"percentage_of_time_with_abnormal_long_term_variability",
	"mean_value_of_long_term_variability",
	"histogram_width",
	"histogram_min",
	"histogram_max",
	"histogram_number_of_peaks",
	"histogram_number_of_zeroes",
	"histogram_mode",
	"histogram_mean",
	"histogram_median",
	"histogram_variance",
	"histogram_tendency",
}

// tendencyValues encodes the categorical histogram tendency numerically.
// Unknown or absent tendencies map to 0.
var tendencyValues = map[string]float64{
	"normal":     0,
	"stable":     0,
	"increasing": 1,
	"decreasing": -1,
}

// ExtractFeatures maps a loosely-typed request body onto the fixed 21-length
// feature vector. Extra keys are ignored. Absent fields are substituted with
// zero and reported in the missing list; more than MaxMissingFields absent
// fields fails with ErrTooManyMissingFields. The function is pure.
func ExtractFeatures(raw map[string]any) (FeatureVector, []string, error) {
	var vec FeatureVector
	var missing []string

	for i, name := range FeatureNames {
		v, ok := raw[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if name == "histogram_tendency" {
			vec[i] = tendencyValue(v)
			continue
		}
		f, err := toFloat(v)
		if err != nil {
			return FeatureVector{}, nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		vec[i] = f
	}

	if len(missing) > MaxMissingFields {
		return FeatureVector{}, missing, fmt.Errorf("%w: %d of %d absent",
			ErrTooManyMissingFields, len(missing), FeatureCount)
	}
	return vec, missing, nil
}

func tendencyValue(v any) float64 {
	s, ok := v.(string)
	if !ok {
		// a numeric tendency is accepted as already encoded
		if f, err := toFloat(v); err == nil {
			return f
		}
		return 0
	}
	return tendencyValues[s]
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("not numeric: %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// ParametersFromMap builds the persistable parameter document from the raw
// request body, applying the same zero-defaulting as ExtractFeatures.
func ParametersFromMap(raw map[string]any) MonitoringParameters {
	num := func(name string) float64 {
		if v, ok := raw[name]; ok && v != nil {
			if f, err := toFloat(v); err == nil {
				return f
			}
		}
		return 0
	}

	p := MonitoringParameters{
		BaselineValue:                  num("baseline_value"),
		Accelerations:                  num("accelerations"),
		FetalMovement:                  num("fetal_movement"),
		UterineContractions:            num("uterine_contractions"),
		LightDecelerations:             num("light_decelerations"),
		SevereDecelerations:            num("severe_decelerations"),
		ProlonguedDecelerations:        num("prolongued_decelerations"),
		AbnormalShortTermVariability:   num("abnormal_short_term_variability"),
		MeanShortTermVariability:       num("mean_value_of_short_term_variability"),
		PctAbnormalLongTermVariability: num("percentage_of_time_with_abnormal_long_term_variability"),
		MeanLongTermVariability:        num("mean_value_of_long_term_variability"),
		HistogramWidth:                 num("histogram_width"),
		HistogramMin:                   num("histogram_min"),
		HistogramMax:                   num("histogram_max"),
		HistogramPeaks:                 num("histogram_number_of_peaks"),
		HistogramZeroes:                num("histogram_number_of_zeroes"),
		HistogramMode:                  num("histogram_mode"),
		HistogramMean:                  num("histogram_mean"),
		HistogramMedian:                num("histogram_median"),
		HistogramVariance:              num("histogram_variance"),
	}
	if s, ok := raw["histogram_tendency"].(string); ok {
		p.HistogramTendency = s
	}
	return p
}
