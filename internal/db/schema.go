package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Schema statements are idempotent, ran on every process start.
// Foreign keys are always enforced by postgres, no pragma needed.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS exercises (
		id           SERIAL PRIMARY KEY,
		name         TEXT NOT NULL,
		muscle_group TEXT NOT NULL,
		description  TEXT,
		video_url    TEXT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	// duplicate names are rejected case-insensitively at the store level
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_exercises_name_lower ON exercises (LOWER(name));`,
	`CREATE TABLE IF NOT EXISTS workout_templates (
		id          SERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS workout_template_exercises (
		id                  SERIAL PRIMARY KEY,
		workout_template_id INTEGER NOT NULL REFERENCES workout_templates(id) ON DELETE CASCADE,
		exercise_id         INTEGER NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
		sets                INTEGER NOT NULL,
		reps                INTEGER NOT NULL,
		initial_weight      REAL NOT NULL DEFAULT 0,
		rest_seconds        INTEGER NOT NULL DEFAULT 60,
		order_index         INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS workout_sessions (
		id                  SERIAL PRIMARY KEY,
		workout_template_id INTEGER NOT NULL REFERENCES workout_templates(id),
		date                DATE NOT NULL,
		duration_minutes    INTEGER,
		notes               TEXT,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	// exercise_id carries no cascade: deleting an exercise with
	// historical logs is blocked by the FK and surfaced as a conflict
	`CREATE TABLE IF NOT EXISTS exercise_logs (
		id                 SERIAL PRIMARY KEY,
		workout_session_id INTEGER NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
		exercise_id        INTEGER NOT NULL REFERENCES exercises(id),
		set_number         INTEGER NOT NULL,
		reps               INTEGER NOT NULL,
		weight             REAL NOT NULL,
		completed          BOOLEAN NOT NULL DEFAULT TRUE,
		notes              TEXT,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
}

// InitSchema ensures all gymtrack tables exist.
func InitSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := dbPool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	log.Debugln("database schema initialized")
	return nil
}
