package integration_testing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, method, path string, payload any, out any) int {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req, err := http.NewRequest(method, serverEndpoint+path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	suite := newSuite(ctx)
	defer suite.cleanup()

	exerciseName := gofakeit.Noun() + " press"

	var exercise struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		MuscleGroup string `json:"muscle_group"`
		UpdatedAt   string `json:"updated_at"`
	}
	status := doJSON(t, "POST", "/exercises", map[string]any{
		"name":         exerciseName,
		"muscle_group": "Peito",
		"video_url":    gofakeit.URL(),
	}, &exercise)
	require.Equal(t, http.StatusCreated, status)
	require.NotZero(t, exercise.ID)

	// duplicate name is rejected
	var dupErr struct {
		Error string `json:"error"`
	}
	status = doJSON(t, "POST", "/exercises", map[string]any{
		"name":         exerciseName,
		"muscle_group": "Peito",
	}, &dupErr)
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Já existe um exercício com este nome", dupErr.Error)

	// an empty patch must leave the row untouched, updated_at included
	var patchedExercise struct {
		Name        string `json:"name"`
		MuscleGroup string `json:"muscle_group"`
		UpdatedAt   string `json:"updated_at"`
	}
	status = doJSON(t, "PUT", fmt.Sprintf("/exercises/%d", exercise.ID), map[string]any{}, &patchedExercise)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, exercise.Name, patchedExercise.Name)
	assert.Equal(t, exercise.MuscleGroup, patchedExercise.MuscleGroup)
	assert.Equal(t, exercise.UpdatedAt, patchedExercise.UpdatedAt)

	var template struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		UpdatedAt string `json:"updated_at"`
	}
	status = doJSON(t, "POST", "/workouts", map[string]any{
		"name": "Treino " + gofakeit.LetterN(6),
	}, &template)
	require.Equal(t, http.StatusCreated, status)

	var patchedTemplate struct {
		Name      string `json:"name"`
		UpdatedAt string `json:"updated_at"`
	}
	status = doJSON(t, "PUT", fmt.Sprintf("/workouts/%d", template.ID), map[string]any{}, &patchedTemplate)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, template.Name, patchedTemplate.Name)
	assert.Equal(t, template.UpdatedAt, patchedTemplate.UpdatedAt)

	status = doJSON(t, "POST", fmt.Sprintf("/workouts/%d/exercises", template.ID), map[string]any{
		"exercise_id": exercise.ID,
		"sets":        4,
		"reps":        10,
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var session struct {
		ID   int    `json:"id"`
		Date string `json:"date"`
	}
	status = doJSON(t, "POST", "/sessions", map[string]any{
		"workout_template_id": template.ID,
		"date":                "2025-06-01",
	}, &session)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "2025-06-01", session.Date)

	// empty session patch, still open and unchanged afterwards
	var patchedSession struct {
		ID              int    `json:"id"`
		Date            string `json:"date"`
		DurationMinutes *int   `json:"duration_minutes"`
	}
	status = doJSON(t, "PUT", fmt.Sprintf("/sessions/%d", session.ID), map[string]any{}, &patchedSession)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, session.ID, patchedSession.ID)
	assert.Equal(t, session.Date, patchedSession.Date)
	assert.Nil(t, patchedSession.DurationMinutes)

	// the exercise is now in use, deleting it is a conflict
	var delErr struct {
		Error string `json:"error"`
	}

	var firstLog struct {
		ID     int     `json:"id"`
		Reps   int     `json:"reps"`
		Weight float64 `json:"weight"`
	}
	for set := 1; set <= 2; set++ {
		var createdLog struct {
			ID     int     `json:"id"`
			Reps   int     `json:"reps"`
			Weight float64 `json:"weight"`
		}
		status = doJSON(t, "POST", fmt.Sprintf("/sessions/%d/logs", session.ID), map[string]any{
			"exercise_id": exercise.ID,
			"set_number":  set,
			"reps":        10,
			"weight":      50,
		}, &createdLog)
		require.Equal(t, http.StatusCreated, status)
		if set == 1 {
			firstLog = createdLog
		}
	}

	var patchedLog struct {
		ID     int     `json:"id"`
		Reps   int     `json:"reps"`
		Weight float64 `json:"weight"`
	}
	status = doJSON(t, "PUT", fmt.Sprintf("/logs/%d", firstLog.ID), map[string]any{}, &patchedLog)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, firstLog, patchedLog)

	status = doJSON(t, "DELETE", fmt.Sprintf("/exercises/%d", exercise.ID), nil, &delErr)
	require.Equal(t, http.StatusConflict, status)

	// finish the session, its logs become immutable
	status = doJSON(t, "PUT", fmt.Sprintf("/sessions/%d", session.ID), map[string]any{
		"duration_minutes": 55,
	}, nil)
	require.Equal(t, http.StatusOK, status)

	var logErr struct {
		Error string `json:"error"`
	}
	status = doJSON(t, "POST", fmt.Sprintf("/sessions/%d/logs", session.ID), map[string]any{
		"exercise_id": exercise.ID,
		"set_number":  3,
		"reps":        8,
		"weight":      50,
	}, &logErr)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Sessão já finalizada", logErr.Error)

	var evolution struct {
		Evolution []struct {
			Date        string  `json:"date"`
			MaxWeight   float64 `json:"maxWeight"`
			TotalVolume float64 `json:"totalVolume"`
		} `json:"evolution"`
		Progress struct {
			TotalSessions int `json:"totalSessions"`
		} `json:"progress"`
	}
	status = doJSON(t, "GET", fmt.Sprintf("/exercises/%d/evolution", exercise.ID), nil, &evolution)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, evolution.Evolution, 1)
	assert.Equal(t, float64(50), evolution.Evolution[0].MaxWeight)
	assert.Equal(t, float64(1000), evolution.Evolution[0].TotalVolume)
	assert.Equal(t, 1, evolution.Progress.TotalSessions)
}
