package exercises

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateExercise(t *testing.T) {
	testCases := []struct {
		name     string
		input    ExerciseInput
		expected []string
	}{
		{
			name:     "valid, minimal",
			input:    ExerciseInput{Name: ptr("Supino"), MuscleGroup: ptr("Peito")},
			expected: []string{},
		},
		{
			name: "valid, with video url",
			input: ExerciseInput{
				Name:        ptr("Supino"),
				MuscleGroup: ptr("Peito"),
				VideoURL:    ptr("https://youtube.com/watch?v=abc"),
			},
			expected: []string{},
		},
		{
			name:  "everything missing",
			input: ExerciseInput{},
			expected: []string{
				"Nome do exercício é obrigatório",
				"Grupo muscular é obrigatório",
			},
		},
		{
			name:  "blank name and group",
			input: ExerciseInput{Name: ptr("   "), MuscleGroup: ptr("")},
			expected: []string{
				"Nome do exercício é obrigatório",
				"Grupo muscular é obrigatório",
			},
		},
		{
			name: "bad video url",
			input: ExerciseInput{
				Name:        ptr("Supino"),
				MuscleGroup: ptr("Peito"),
				VideoURL:    ptr("youtube"),
			},
			expected: []string{"URL do vídeo deve ser válida"},
		},
		{
			name: "empty video url is fine",
			input: ExerciseInput{
				Name:        ptr("Supino"),
				MuscleGroup: ptr("Peito"),
				VideoURL:    ptr(""),
			},
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ValidateExercise(tc.input))
		})
	}
}

func TestValidateExercisePatch(t *testing.T) {
	// absent fields are fine on a patch
	assert.Empty(t, ValidateExercisePatch(ExerciseInput{}))
	assert.Empty(t, ValidateExercisePatch(ExerciseInput{Name: ptr("Supino")}))

	// present but blank is not
	assert.Equal(t,
		[]string{"Nome do exercício é obrigatório"},
		ValidateExercisePatch(ExerciseInput{Name: ptr("  ")}),
	)
	assert.Equal(t,
		[]string{"Grupo muscular é obrigatório"},
		ValidateExercisePatch(ExerciseInput{MuscleGroup: ptr("")}),
	)
	assert.Equal(t,
		[]string{"URL do vídeo deve ser válida"},
		ValidateExercisePatch(ExerciseInput{VideoURL: ptr("nope")}),
	)
}
