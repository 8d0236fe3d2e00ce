package inference

// classVerdict is the clinical reading of one raw classifier class. The
// recommendation lists are canned clinical guidance keyed on the class, not
// model output; they are a static lookup on purpose.
type classVerdict struct {
	status          string
	description     string
	color           string
	recommendations []string
}

const (
	ClassNormal       = 1
	ClassSuspicious   = 2
	ClassPathological = 3
)

var classVerdicts = map[int]classVerdict{
	ClassNormal: {
		status:      "Normal",
		description: "Feto saudável - sem indicações de risco",
		color:       "success",
		recommendations: []string{
			"Continue o monitoramento de rotina",
			"Mantenha consultas pré-natais regulares",
			"Acompanhe os movimentos fetais diariamente",
			"Mantenha estilo de vida saudável",
		},
	},
	ClassSuspicious: {
		status:      "Suspeito",
		description: "Necessita acompanhamento médico mais próximo",
		color:       "warning",
		recommendations: []string{
			"Aumente a frequência do monitoramento",
			"Considere realizar cardiotocografia adicional",
			"Agende consulta médica em 24-48 horas",
			"Monitore movimentos fetais de perto",
		},
	},
	ClassPathological: {
		status:      "Patológico",
		description: "Requer intervenção médica imediata",
		color:       "danger",
		recommendations: []string{
			"URGENTE: Contate médico imediatamente",
			"Considere internação hospitalar",
			"Monitoramento contínuo necessário",
			"Avalie necessidade de parto de emergência",
		},
	},
}

// ModelInfo is the static metadata served by /model-info.
type ModelInfo struct {
	ModelType     string         `json:"model_type"`
	FeaturesCount int            `json:"features_count"`
	Features      []string       `json:"features"`
	Classes       []int          `json:"classes"`
	HealthClasses map[int]string `json:"health_classes"`
}

// Info describes the classifier contract this gateway speaks.
func Info(features []string) ModelInfo {
	return ModelInfo{
		ModelType:     "external",
		FeaturesCount: len(features),
		Features:      features,
		Classes:       []int{ClassNormal, ClassSuspicious, ClassPathological},
		HealthClasses: map[int]string{
			ClassNormal:       classVerdicts[ClassNormal].status,
			ClassSuspicious:   classVerdicts[ClassSuspicious].status,
			ClassPathological: classVerdicts[ClassPathological].status,
		},
	}
}
