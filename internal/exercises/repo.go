package exercises

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gymtrack/server/internal/telemetry/tracing"
	"github.com/gymtrack/server/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	// ErrExerciseExists - another exercise with the same name (case-insensitive) exists
	ErrExerciseExists = errors.New("exercise name already taken")
	// ErrExerciseInUse - historical logs still reference the exercise
	ErrExerciseInUse = errors.New("exercise referenced by logs")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, in ExerciseInput) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercises (name, muscle_group, description, video_url)
			VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		in.Name, in.MuscleGroup, in.Description, in.VideoURL,
	).Scan(&id)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrExerciseExists
		}
		return nil, fmt.Errorf("insert exercise: %w", err)
	}

	span.SetAttributes(attribute.Int("exercise.id", id))

	return r.Get(ctx, id)
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	var e Exercise
	err = r.db.QueryRow(
		ctx,
		`SELECT id, name, muscle_group, description, video_url, created_at, updated_at
			FROM exercises WHERE id = $1;`,
		id,
	).Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Description, &e.VideoURL, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("get exercise: %w", err)
	}

	return &e, nil
}

func (r *Repo) List(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, muscle_group, description, video_url, created_at, updated_at
			FROM exercises ORDER BY name;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return rows2exercises(rows)
}

func (r *Repo) ListByMuscleGroup(ctx context.Context, muscleGroup string) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.listbymusclegroup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("muscle_group", muscleGroup))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, muscle_group, description, video_url, created_at, updated_at
			FROM exercises WHERE muscle_group = $1 ORDER BY name;`,
		muscleGroup,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return rows2exercises(rows)
}

func (r *Repo) Update(ctx context.Context, id int, in ExerciseInput) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	fields := make([]string, 0, 5)
	values := make([]interface{}, 0, 5)
	addField := func(column string, value interface{}) {
		values = append(values, value)
		fields = append(fields, fmt.Sprintf("%s = $%d", column, len(values)))
	}

	if in.Name != nil {
		addField("name", *in.Name)
	}
	if in.MuscleGroup != nil {
		addField("muscle_group", *in.MuscleGroup)
	}
	if in.Description != nil {
		addField("description", *in.Description)
	}
	if in.VideoURL != nil {
		addField("video_url", *in.VideoURL)
	}

	if len(fields) == 0 {
		return r.Get(ctx, id)
	}

	fields = append(fields, "updated_at = NOW()")
	values = append(values, id)

	tag, err := r.db.Exec(
		ctx,
		fmt.Sprintf(
			`UPDATE exercises SET %s WHERE id = $%d;`,
			strings.Join(fields, ", "), len(values),
		),
		values...,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrExerciseExists
		}
		return nil, fmt.Errorf("update exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrExerciseNotFound
	}

	return r.Get(ctx, id)
}

// Delete reports whether a row was actually removed. Deleting an
// exercise still referenced by historical logs fails with ErrExerciseInUse.
func (r *Repo) Delete(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM exercises WHERE id = $1;`, id)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return false, ErrExerciseInUse
		}
		return false, fmt.Errorf("delete exercise: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func rows2exercises(rows pgx.Rows) ([]Exercise, error) {
	exercises := make([]Exercise, 0)
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(
			&e.ID, &e.Name, &e.MuscleGroup, &e.Description, &e.VideoURL, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exercises = append(exercises, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return exercises, nil
}
