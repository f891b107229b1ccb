package templates

import "strings"

func ValidateTemplate(in TemplateInput) []string {
	errs := make([]string, 0)

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		errs = append(errs, "Nome da ficha é obrigatório")
	}

	return errs
}

func ValidateTemplateExercise(in TemplateExerciseInput) []string {
	errs := make([]string, 0)

	if in.ExerciseID == nil || *in.ExerciseID <= 0 {
		errs = append(errs, "Exercício é obrigatório")
	}
	if in.Sets == nil || *in.Sets <= 0 {
		errs = append(errs, "Número de séries deve ser maior que zero")
	}
	if in.Reps == nil || *in.Reps <= 0 {
		errs = append(errs, "Número de repetições deve ser maior que zero")
	}
	if in.InitialWeight != nil && *in.InitialWeight < 0 {
		errs = append(errs, "Peso inicial não pode ser negativo")
	}
	if in.RestSeconds != nil && *in.RestSeconds < 0 {
		errs = append(errs, "Tempo de descanso não pode ser negativo")
	}

	return errs
}
