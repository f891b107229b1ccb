package sessions

import "time"

// WorkoutSession is one visit to the gym, always tied to a workout
// template. A session with DurationMinutes set is considered finished.
type WorkoutSession struct {
	ID              int       `json:"id"`
	TemplateID      int       `json:"workout_template_id"`
	TemplateName    string    `json:"template_name,omitempty"`
	Date            string    `json:"date"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (s *WorkoutSession) Finished() bool {
	return s.DurationMinutes != nil
}

// ExerciseLog is one performed set. ExerciseName, MuscleGroup and Date
// come from joins and are only set on reads.
type ExerciseLog struct {
	ID           int       `json:"id"`
	SessionID    int       `json:"workout_session_id"`
	ExerciseID   int       `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name,omitempty"`
	MuscleGroup  string    `json:"muscle_group,omitempty"`
	Date         string    `json:"date,omitempty"`
	SetNumber    int       `json:"set_number"`
	Reps         int       `json:"reps"`
	Weight       float64   `json:"weight"`
	Completed    bool      `json:"completed"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type SessionWithLogs struct {
	WorkoutSession
	Logs []ExerciseLog `json:"logs"`
}

type SessionInput struct {
	TemplateID      *int    `json:"workout_template_id"`
	Date            *string `json:"date"`
	DurationMinutes *int    `json:"duration_minutes"`
	Notes           *string `json:"notes"`
}

// LogInput - Completed defaults to true when omitted.
type LogInput struct {
	SessionID  *int     `json:"workout_session_id"`
	ExerciseID *int     `json:"exercise_id"`
	SetNumber  *int     `json:"set_number"`
	Reps       *int     `json:"reps"`
	Weight     *float64 `json:"weight"`
	Completed  *bool    `json:"completed"`
	Notes      *string  `json:"notes"`
}
