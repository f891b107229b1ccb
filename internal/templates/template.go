package templates

import "time"

type Template struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TemplateExercise is one exercise slot within a workout template,
// enriched with the exercise name and muscle group when read back.
type TemplateExercise struct {
	ID            int     `json:"id"`
	TemplateID    int     `json:"workout_template_id"`
	ExerciseID    int     `json:"exercise_id"`
	ExerciseName  string  `json:"exercise_name,omitempty"`
	MuscleGroup   string  `json:"muscle_group,omitempty"`
	Sets          int     `json:"sets"`
	Reps          int     `json:"reps"`
	InitialWeight float64 `json:"initial_weight"`
	RestSeconds   int     `json:"rest_seconds"`
	OrderIndex    int     `json:"order_index"`
}

type TemplateWithExercises struct {
	Template
	Exercises []TemplateExercise `json:"exercises"`
}

type TemplateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type TemplateExerciseInput struct {
	ExerciseID    *int     `json:"exercise_id"`
	Sets          *int     `json:"sets"`
	Reps          *int     `json:"reps"`
	InitialWeight *float64 `json:"initial_weight"`
	RestSeconds   *int     `json:"rest_seconds"`
	OrderIndex    *int     `json:"order_index"`
}
