package templates

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
	ErrTemplateNotFound = errors.New("workout template not found")
	// ErrTemplateInUse - recorded sessions still reference the template
	ErrTemplateInUse = errors.New("workout template referenced by sessions")
	// ErrExerciseMissing - the referenced exercise does not exist in the catalog
	ErrExerciseMissing = errors.New("exercise does not exist")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, in TemplateInput) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout_templates (name, description)
			VALUES ($1, $2)
		RETURNING id;`,
		in.Name, in.Description,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}

	span.SetAttributes(attribute.Int("template.id", id))

	return r.Get(ctx, id)
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	var tmpl Template
	err = r.db.QueryRow(
		ctx,
		`SELECT id, name, description, created_at, updated_at
			FROM workout_templates WHERE id = $1;`,
		id,
	).Scan(&tmpl.ID, &tmpl.Name, &tmpl.Description, &tmpl.CreatedAt, &tmpl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}

	return &tmpl, nil
}

func (r *Repo) List(ctx context.Context) (_ []Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, description, created_at, updated_at
			FROM workout_templates ORDER BY name;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	all := make([]Template, 0)
	for rows.Next() {
		var tmpl Template
		if err := rows.Scan(&tmpl.ID, &tmpl.Name, &tmpl.Description, &tmpl.CreatedAt, &tmpl.UpdatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		all = append(all, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return all, nil
}

// GetWithExercises returns the template plus its exercise slots in plan
// order, each slot joined with the exercise name and muscle group.
func (r *Repo) GetWithExercises(ctx context.Context, id int) (_ *TemplateWithExercises, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.getwithexercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tmpl, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT te.id, te.workout_template_id, te.exercise_id, e.name, e.muscle_group,
				te.sets, te.reps, te.initial_weight, te.rest_seconds, te.order_index
			FROM workout_template_exercises te
			JOIN exercises e ON e.id = te.exercise_id
			WHERE te.workout_template_id = $1
			ORDER BY te.order_index;`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query template exercises: %w", err)
	}
	defer rows.Close()

	exercises := make([]TemplateExercise, 0)
	for rows.Next() {
		var te TemplateExercise
		if err := rows.Scan(
			&te.ID, &te.TemplateID, &te.ExerciseID, &te.ExerciseName, &te.MuscleGroup,
			&te.Sets, &te.Reps, &te.InitialWeight, &te.RestSeconds, &te.OrderIndex,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exercises = append(exercises, te)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &TemplateWithExercises{
		Template:  *tmpl,
		Exercises: exercises,
	}, nil
}

func (r *Repo) Update(ctx context.Context, id int, in TemplateInput) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	fields := make([]string, 0, 3)
	values := make([]interface{}, 0, 3)
	addField := func(column string, value interface{}) {
		values = append(values, value)
		fields = append(fields, fmt.Sprintf("%s = $%d", column, len(values)))
	}

	if in.Name != nil {
		addField("name", *in.Name)
	}
	if in.Description != nil {
		addField("description", *in.Description)
	}

	if len(fields) == 0 {
		return r.Get(ctx, id)
	}

	fields = append(fields, "updated_at = NOW()")
	values = append(values, id)

	tag, err := r.db.Exec(
		ctx,
		fmt.Sprintf(
			`UPDATE workout_templates SET %s WHERE id = $%d;`,
			strings.Join(fields, ", "), len(values),
		),
		values...,
	)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrTemplateNotFound
	}

	return r.Get(ctx, id)
}

// Delete removes the template and its exercise slots in one transaction.
// Templates already used by recorded sessions cannot be removed.
func (r *Repo) Delete(ctx context.Context, id int) (deleted bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rollbackErr))
			}
			return
		}
		err = tx.Commit(ctx)
	}()

	if _, err = tx.Exec(
		ctx, `DELETE FROM workout_template_exercises WHERE workout_template_id = $1;`, id,
	); err != nil {
		return false, fmt.Errorf("delete template exercises: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM workout_templates WHERE id = $1;`, id)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return false, ErrTemplateInUse
		}
		return false, fmt.Errorf("delete template: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *Repo) AddExercise(ctx context.Context, templateID int, in TemplateExerciseInput) (_ *TemplateExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.addexercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("template.id", templateID))

	initialWeight := float64(0)
	if in.InitialWeight != nil {
		initialWeight = *in.InitialWeight
	}
	restSeconds := 60
	if in.RestSeconds != nil {
		restSeconds = *in.RestSeconds
	}
	orderIndex := 0
	if in.OrderIndex != nil {
		orderIndex = *in.OrderIndex
	}

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout_template_exercises
				(workout_template_id, exercise_id, sets, reps, initial_weight, rest_seconds, order_index)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;`,
		templateID, in.ExerciseID, in.Sets, in.Reps, initialWeight, restSeconds, orderIndex,
	).Scan(&id)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrExerciseMissing
		}
		return nil, fmt.Errorf("insert template exercise: %w", err)
	}

	var te TemplateExercise
	err = r.db.QueryRow(
		ctx,
		`SELECT te.id, te.workout_template_id, te.exercise_id, e.name, e.muscle_group,
				te.sets, te.reps, te.initial_weight, te.rest_seconds, te.order_index
			FROM workout_template_exercises te
			JOIN exercises e ON e.id = te.exercise_id
			WHERE te.id = $1;`,
		id,
	).Scan(
		&te.ID, &te.TemplateID, &te.ExerciseID, &te.ExerciseName, &te.MuscleGroup,
		&te.Sets, &te.Reps, &te.InitialWeight, &te.RestSeconds, &te.OrderIndex,
	)
	if err != nil {
		return nil, fmt.Errorf("get template exercise: %w", err)
	}

	return &te, nil
}

func (r *Repo) RemoveExercise(ctx context.Context, templateID, exerciseID int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.removeexercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("template.id", templateID),
		attribute.Int("exercise.id", exerciseID),
	)

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_template_exercises
			WHERE workout_template_id = $1 AND exercise_id = $2;`,
		templateID, exerciseID,
	)
	if err != nil {
		return false, fmt.Errorf("delete template exercise: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
