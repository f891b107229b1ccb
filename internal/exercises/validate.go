package exercises

import (
	"net/url"
	"strings"
)

// ValidateExercise returns the list of human readable validation errors,
// empty list means the input is valid. Never returns an error value.
func ValidateExercise(in ExerciseInput) []string {
	errs := make([]string, 0)

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		errs = append(errs, "Nome do exercício é obrigatório")
	}

	if in.MuscleGroup == nil || strings.TrimSpace(*in.MuscleGroup) == "" {
		errs = append(errs, "Grupo muscular é obrigatório")
	}

	if in.VideoURL != nil && *in.VideoURL != "" && !isValidURL(*in.VideoURL) {
		errs = append(errs, "URL do vídeo deve ser válida")
	}

	return errs
}

// ValidateExercisePatch checks a partial update, only fields that are
// actually present get validated.
func ValidateExercisePatch(in ExerciseInput) []string {
	errs := make([]string, 0)

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		errs = append(errs, "Nome do exercício é obrigatório")
	}

	if in.MuscleGroup != nil && strings.TrimSpace(*in.MuscleGroup) == "" {
		errs = append(errs, "Grupo muscular é obrigatório")
	}

	if in.VideoURL != nil && *in.VideoURL != "" && !isValidURL(*in.VideoURL) {
		errs = append(errs, "URL do vídeo deve ser válida")
	}

	return errs
}

// isValidURL checks syntactic validity only, no reachability check
func isValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
