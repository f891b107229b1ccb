package sessions

import "time"

const dateLayout = "2006-01-02"

func ValidateSession(in SessionInput) []string {
	errs := make([]string, 0)

	if in.TemplateID == nil || *in.TemplateID <= 0 {
		errs = append(errs, "Ficha de treino é obrigatória")
	}

	if in.Date == nil || *in.Date == "" {
		errs = append(errs, "Data é obrigatória")
	} else if !isValidDate(*in.Date) {
		errs = append(errs, "Data inválida")
	}

	if in.DurationMinutes != nil && *in.DurationMinutes < 0 {
		errs = append(errs, "Duração não pode ser negativa")
	}

	return errs
}

func ValidateLog(in LogInput) []string {
	errs := make([]string, 0)

	if in.SessionID == nil || *in.SessionID <= 0 {
		errs = append(errs, "Sessão de treino é obrigatória")
	}
	if in.ExerciseID == nil || *in.ExerciseID <= 0 {
		errs = append(errs, "Exercício é obrigatório")
	}
	if in.SetNumber == nil || *in.SetNumber <= 0 {
		errs = append(errs, "Número da série deve ser maior que zero")
	}
	if in.Reps != nil && *in.Reps < 0 {
		errs = append(errs, "Repetições não podem ser negativas")
	}
	if in.Weight != nil && *in.Weight < 0 {
		errs = append(errs, "Peso não pode ser negativo")
	}

	return errs
}

// isValidDate accepts the plain date layout, plus full timestamps the
// web client sometimes sends for "today".
func isValidDate(date string) bool {
	if _, err := time.Parse(dateLayout, date); err == nil {
		return true
	}
	if _, err := time.Parse(time.RFC3339, date); err == nil {
		return true
	}
	return false
}
