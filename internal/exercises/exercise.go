package exercises

import "time"

type Exercise struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	MuscleGroup string    `json:"muscle_group"`
	Description *string   `json:"description,omitempty"`
	VideoURL    *string   `json:"video_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExerciseInput is the client payload for both create and update,
// nil fields are left untouched on update.
type ExerciseInput struct {
	Name        *string `json:"name"`
	MuscleGroup *string `json:"muscle_group"`
	Description *string `json:"description"`
	VideoURL    *string `json:"video_url"`
}
