package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gymtrack/server/internal/telemetry/tracing"
	"github.com/gymtrack/server/pkg"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

func (r *Repo) CreateLog(ctx context.Context, in LogInput) (_ *ExerciseLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := r.GetSession(ctx, *in.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionMissing
		}
		return nil, err
	}
	if session.Finished() {
		return nil, ErrSessionFinished
	}

	reps := 0
	if in.Reps != nil {
		reps = *in.Reps
	}
	weight := float64(0)
	if in.Weight != nil {
		weight = *in.Weight
	}
	completed := true
	if in.Completed != nil {
		completed = *in.Completed
	}

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercise_logs
				(workout_session_id, exercise_id, set_number, reps, weight, completed, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;`,
		in.SessionID, in.ExerciseID, in.SetNumber, reps, weight, completed, in.Notes,
	).Scan(&id)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrExerciseMissing
		}
		return nil, fmt.Errorf("insert log: %w", err)
	}

	span.SetAttributes(attribute.Int("log.id", id))

	return r.GetLog(ctx, id)
}

func (r *Repo) GetLog(ctx context.Context, id int) (_ *ExerciseLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	var (
		l    ExerciseLog
		date time.Time
	)
	err = r.db.QueryRow(
		ctx,
		`SELECT l.id, l.workout_session_id, l.exercise_id, e.name, e.muscle_group, s.date,
				l.set_number, l.reps, l.weight, l.completed, l.notes, l.created_at
			FROM exercise_logs l
			JOIN exercises e ON e.id = l.exercise_id
			JOIN workout_sessions s ON s.id = l.workout_session_id
			WHERE l.id = $1;`,
		id,
	).Scan(
		&l.ID, &l.SessionID, &l.ExerciseID, &l.ExerciseName, &l.MuscleGroup, &date,
		&l.SetNumber, &l.Reps, &l.Weight, &l.Completed, &l.Notes, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("get log: %w", err)
	}
	l.Date = date.Format(dateLayout)

	return &l, nil
}

func (r *Repo) ListLogsBySession(ctx context.Context, sessionID int) (_ []ExerciseLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.listbysession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", sessionID))

	rows, err := r.db.Query(
		ctx,
		`SELECT l.id, l.workout_session_id, l.exercise_id, e.name, e.muscle_group, s.date,
				l.set_number, l.reps, l.weight, l.completed, l.notes, l.created_at
			FROM exercise_logs l
			JOIN exercises e ON e.id = l.exercise_id
			JOIN workout_sessions s ON s.id = l.workout_session_id
			WHERE l.workout_session_id = $1
			ORDER BY l.exercise_id, l.set_number;`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return rows2logs(rows)
}

// ListLogsByExercise feeds the evolution report, newest sessions first.
func (r *Repo) ListLogsByExercise(ctx context.Context, exerciseID int) (_ []ExerciseLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.listbyexercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise.id", exerciseID))

	rows, err := r.db.Query(
		ctx,
		`SELECT l.id, l.workout_session_id, l.exercise_id, e.name, e.muscle_group, s.date,
				l.set_number, l.reps, l.weight, l.completed, l.notes, l.created_at
			FROM exercise_logs l
			JOIN exercises e ON e.id = l.exercise_id
			JOIN workout_sessions s ON s.id = l.workout_session_id
			WHERE l.exercise_id = $1
			ORDER BY s.date DESC, l.set_number;`,
		exerciseID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return rows2logs(rows)
}

func (r *Repo) UpdateLog(ctx context.Context, id int, in LogInput) (_ *ExerciseLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	if err := r.checkLogMutable(ctx, id); err != nil {
		return nil, err
	}

	fields := make([]string, 0, 5)
	values := make([]interface{}, 0, 5)
	addField := func(column string, value interface{}) {
		values = append(values, value)
		fields = append(fields, fmt.Sprintf("%s = $%d", column, len(values)))
	}

	if in.SetNumber != nil {
		addField("set_number", *in.SetNumber)
	}
	if in.Reps != nil {
		addField("reps", *in.Reps)
	}
	if in.Weight != nil {
		addField("weight", *in.Weight)
	}
	if in.Completed != nil {
		addField("completed", *in.Completed)
	}
	if in.Notes != nil {
		addField("notes", *in.Notes)
	}

	if len(fields) == 0 {
		return r.GetLog(ctx, id)
	}

	values = append(values, id)
	if _, err := r.db.Exec(
		ctx,
		fmt.Sprintf(
			`UPDATE exercise_logs SET %s WHERE id = $%d;`,
			strings.Join(fields, ", "), len(values),
		),
		values...,
	); err != nil {
		return nil, fmt.Errorf("update log: %w", err)
	}

	return r.GetLog(ctx, id)
}

func (r *Repo) DeleteLog(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	if err := r.checkLogMutable(ctx, id); err != nil {
		if errors.Is(err, ErrLogNotFound) {
			return false, nil
		}
		return false, err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise_logs WHERE id = $1;`, id)
	if err != nil {
		return false, fmt.Errorf("delete log: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// checkLogMutable rejects changes to logs of finished sessions.
func (r *Repo) checkLogMutable(ctx context.Context, id int) error {
	var durationMinutes *int
	err := r.db.QueryRow(
		ctx,
		`SELECT s.duration_minutes
			FROM exercise_logs l
			JOIN workout_sessions s ON s.id = l.workout_session_id
			WHERE l.id = $1;`,
		id,
	).Scan(&durationMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLogNotFound
		}
		return fmt.Errorf("check log session: %w", err)
	}
	if durationMinutes != nil {
		return ErrSessionFinished
	}
	return nil
}

func rows2logs(rows pgx.Rows) ([]ExerciseLog, error) {
	logs := make([]ExerciseLog, 0)
	for rows.Next() {
		var (
			l    ExerciseLog
			date time.Time
		)
		if err := rows.Scan(
			&l.ID, &l.SessionID, &l.ExerciseID, &l.ExerciseName, &l.MuscleGroup, &date,
			&l.SetNumber, &l.Reps, &l.Weight, &l.Completed, &l.Notes, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		l.Date = date.Format(dateLayout)
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return logs, nil
}
