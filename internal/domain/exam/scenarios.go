package exam

// Scenario is a canned parameter set used by the UI and test harnesses to
// exercise the pipeline without a live CTG feed.
type Scenario struct {
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

// TestScenarios returns the three reference traces served by /test-scenarios.
// The values are fixed clinical exemplars, one per classifier class.
func TestScenarios() map[string]Scenario {
	return map[string]Scenario{
		"normal": {
			Name: "Feto Saudável",
			Data: map[string]any{
				"baseline_value":                  140,
				"accelerations":                   3,
				"fetal_movement":                  4,
				"uterine_contractions":            0,
				"light_decelerations":             0,
				"severe_decelerations":            0,
				"prolongued_decelerations":        0,
				"abnormal_short_term_variability": 0,
				"mean_value_of_short_term_variability": 5.5,
				"percentage_of_time_with_abnormal_long_term_variability": 10,
				"mean_value_of_long_term_variability":                    25,
				"histogram_width":           120,
				"histogram_min":             90,
				"histogram_max":             180,
				"histogram_number_of_peaks": 3,
				"histogram_number_of_zeroes": 0,
				"histogram_mode":            140,
				"histogram_mean":            140,
				"histogram_median":          140,
				"histogram_variance":        15,
				"histogram_tendency":        "normal",
			},
		},
		"suspicious": {
			Name: "Feto Suspeito",
			Data: map[string]any{
				"baseline_value":                  160,
				"accelerations":                   1,
				"fetal_movement":                  2,
				"uterine_contractions":            2,
				"light_decelerations":             2,
				"severe_decelerations":            0,
				"prolongued_decelerations":        0,
				"abnormal_short_term_variability": 15,
				"mean_value_of_short_term_variability": 3.2,
				"percentage_of_time_with_abnormal_long_term_variability": 25,
				"mean_value_of_long_term_variability":                    18,
				"histogram_width":           80,
				"histogram_min":             110,
				"histogram_max":             170,
				"histogram_number_of_peaks": 2,
				"histogram_number_of_zeroes": 5,
				"histogram_mode":            160,
				"histogram_mean":            158,
				"histogram_median":          160,
				"histogram_variance":        25,
				"histogram_tendency":        "decreasing",
			},
		},
		"pathological": {
			Name: "Feto Patológico",
			Data: map[string]any{
				"baseline_value":                  110,
				"accelerations":                   0,
				"fetal_movement":                  0,
				"uterine_contractions":            5,
				"light_decelerations":             5,
				"severe_decelerations":            3,
				"prolongued_decelerations":        2,
				"abnormal_short_term_variability": 45,
				"mean_value_of_short_term_variability": 1.8,
				"percentage_of_time_with_abnormal_long_term_variability": 60,
				"mean_value_of_long_term_variability":                    8,
				"histogram_width":           40,
				"histogram_min":             80,
				"histogram_max":             130,
				"histogram_number_of_peaks": 1,
				"histogram_number_of_zeroes": 15,
				"histogram_mode":            110,
				"histogram_mean":            108,
				"histogram_median":          110,
				"histogram_variance":        45,
				"histogram_tendency":        "decreasing",
			},
		},
	}
}
