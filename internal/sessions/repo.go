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
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrSessionNotFound = errors.New("workout session not found")
	ErrLogNotFound     = errors.New("exercise log not found")
	// ErrSessionFinished - logs of a finished session are immutable
	ErrSessionFinished = errors.New("workout session already finished")
	// ErrTemplateMissing - the referenced workout template does not exist
	ErrTemplateMissing = errors.New("workout template does not exist")
	// ErrSessionMissing - the referenced workout session does not exist
	ErrSessionMissing = errors.New("workout session does not exist")
	// ErrExerciseMissing - the referenced exercise does not exist
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

func (r *Repo) CreateSession(ctx context.Context, in SessionInput) (_ *WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	date, err := normalizeDate(*in.Date)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout_sessions (workout_template_id, date, duration_minutes, notes)
			VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		in.TemplateID, date, in.DurationMinutes, in.Notes,
	).Scan(&id)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrTemplateMissing
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}

	span.SetAttributes(attribute.Int("session.id", id))

	return r.GetSession(ctx, id)
}

func (r *Repo) GetSession(ctx context.Context, id int) (_ *WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	var (
		s    WorkoutSession
		date time.Time
	)
	err = r.db.QueryRow(
		ctx,
		`SELECT s.id, s.workout_template_id, t.name, s.date, s.duration_minutes, s.notes, s.created_at
			FROM workout_sessions s
			JOIN workout_templates t ON t.id = s.workout_template_id
			WHERE s.id = $1;`,
		id,
	).Scan(&s.ID, &s.TemplateID, &s.TemplateName, &date, &s.DurationMinutes, &s.Notes, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	s.Date = date.Format(dateLayout)

	return &s, nil
}

func (r *Repo) ListSessions(ctx context.Context) (_ []WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT s.id, s.workout_template_id, t.name, s.date, s.duration_minutes, s.notes, s.created_at
			FROM workout_sessions s
			JOIN workout_templates t ON t.id = s.workout_template_id
			ORDER BY s.date DESC, s.created_at DESC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return rows2sessions(rows)
}

func (r *Repo) ListSessionsByTemplate(ctx context.Context, templateID int) (_ []WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.listbytemplate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("template.id", templateID))

	rows, err := r.db.Query(
		ctx,
		`SELECT s.id, s.workout_template_id, t.name, s.date, s.duration_minutes, s.notes, s.created_at
			FROM workout_sessions s
			JOIN workout_templates t ON t.id = s.workout_template_id
			WHERE s.workout_template_id = $1
			ORDER BY s.date DESC, s.created_at DESC;`,
		templateID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return rows2sessions(rows)
}

func (r *Repo) GetSessionWithLogs(ctx context.Context, id int) (_ *SessionWithLogs, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.getwithlogs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	return mergeSessionWithLogs(ctx, id, r.GetSession, r.ListLogsBySession)
}

// mergeSessionWithLogs is a two-step read: the logs query is never
// issued when the session itself is missing.
func mergeSessionWithLogs(
	ctx context.Context,
	id int,
	getSession func(ctx context.Context, id int) (*WorkoutSession, error),
	listLogs func(ctx context.Context, sessionID int) ([]ExerciseLog, error),
) (*SessionWithLogs, error) {
	session, err := getSession(ctx, id)
	if err != nil {
		return nil, err
	}

	logs, err := listLogs(ctx, id)
	if err != nil {
		return nil, err
	}

	return &SessionWithLogs{
		WorkoutSession: *session,
		Logs:           logs,
	}, nil
}

// UpdateSession patches duration and notes only, session date and
// template are fixed at creation.
func (r *Repo) UpdateSession(ctx context.Context, id int, in SessionInput) (_ *WorkoutSession, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	fields := make([]string, 0, 2)
	values := make([]interface{}, 0, 2)
	addField := func(column string, value interface{}) {
		values = append(values, value)
		fields = append(fields, fmt.Sprintf("%s = $%d", column, len(values)))
	}

	if in.DurationMinutes != nil {
		addField("duration_minutes", *in.DurationMinutes)
	}
	if in.Notes != nil {
		addField("notes", *in.Notes)
	}

	if len(fields) == 0 {
		return r.GetSession(ctx, id)
	}

	values = append(values, id)
	tag, err := r.db.Exec(
		ctx,
		fmt.Sprintf(
			`UPDATE workout_sessions SET %s WHERE id = $%d;`,
			strings.Join(fields, ", "), len(values),
		),
		values...,
	)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrSessionNotFound
	}

	return r.GetSession(ctx, id)
}

// DeleteSession removes the session, its logs go with it via cascade.
func (r *Repo) DeleteSession(ctx context.Context, id int) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_sessions WHERE id = $1;`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func rows2sessions(rows pgx.Rows) ([]WorkoutSession, error) {
	sessions := make([]WorkoutSession, 0)
	for rows.Next() {
		var (
			s    WorkoutSession
			date time.Time
		)
		if err := rows.Scan(
			&s.ID, &s.TemplateID, &s.TemplateName, &date, &s.DurationMinutes, &s.Notes, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		s.Date = date.Format(dateLayout)
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return sessions, nil
}

// normalizeDate strips the time part of RFC3339 timestamps, DATE
// columns hold plain days.
func normalizeDate(date string) (string, error) {
	if t, err := time.Parse(dateLayout, date); err == nil {
		return t.Format(dateLayout), nil
	}
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return "", err
	}
	return t.Format(dateLayout), nil
}
