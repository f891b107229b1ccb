package templates

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func newTestHandler(repo *repoMock) *mux.Router {
	router := mux.NewRouter()
	NewHandler(repo).SetupRoutes(router)
	return router
}

func TestHandler_Create(t *testing.T) {
	router := newTestHandler(newRepoMock())

	reqBody := `{"name":"Treino A","description":"Peito e tríceps"}`
	req, err := http.NewRequest("POST", "/workouts", strings.NewReader(reqBody))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created Template
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "Treino A", created.Name)
}

func TestHandler_Create_MissingName(t *testing.T) {
	router := newTestHandler(newRepoMock())

	req, err := http.NewRequest("POST", "/workouts", strings.NewReader(`{}`))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Dados inválidos","details":["Nome da ficha é obrigatório"]}`, rec.Body.String())
}

func TestHandler_Get_WithExercises(t *testing.T) {
	repo := newRepoMock()
	repo.knownExercises[7] = "Supino Reto"
	created, err := repo.Create(t.Context(), TemplateInput{Name: ptr("Treino A")})
	require.NoError(t, err)

	exerciseID, sets, reps := 7, 4, 10
	_, err = repo.AddExercise(t.Context(), created.ID, TemplateExerciseInput{
		ExerciseID: &exerciseID,
		Sets:       &sets,
		Reps:       &reps,
	})
	require.NoError(t, err)

	router := newTestHandler(repo)
	req, err := http.NewRequest("GET", fmt.Sprintf("/workouts/%d", created.ID), nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got TemplateWithExercises
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Treino A", got.Name)
	require.Len(t, got.Exercises, 1)
	assert.Equal(t, "Supino Reto", got.Exercises[0].ExerciseName)
	assert.Equal(t, 4, got.Exercises[0].Sets)
	assert.Equal(t, 60, got.Exercises[0].RestSeconds)
}

func TestHandler_Get_NotFound(t *testing.T) {
	router := newTestHandler(newRepoMock())

	req, err := http.NewRequest("GET", "/workouts/33", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Ficha de treino não encontrada"}`, rec.Body.String())
}

func TestHandler_Update(t *testing.T) {
	repo := newRepoMock()
	created, err := repo.Create(t.Context(), TemplateInput{Name: ptr("Treino A")})
	require.NoError(t, err)

	router := newTestHandler(repo)
	req, err := http.NewRequest(
		"PUT",
		fmt.Sprintf("/workouts/%d", created.ID),
		strings.NewReader(`{"name":"Treino B"}`),
	)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var updated Template
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Treino B", updated.Name)
}

func TestHandler_Delete(t *testing.T) {
	repo := newRepoMock()
	created, err := repo.Create(t.Context(), TemplateInput{Name: ptr("Treino A")})
	require.NoError(t, err)

	router := newTestHandler(repo)
	req, err := http.NewRequest("DELETE", fmt.Sprintf("/workouts/%d", created.ID), nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Ficha de treino excluída com sucesso"}`, rec.Body.String())
}

func TestHandler_Delete_InUse(t *testing.T) {
	repo := newRepoMock()
	created, err := repo.Create(t.Context(), TemplateInput{Name: ptr("Treino A")})
	require.NoError(t, err)
	repo.inUse[created.ID] = true

	router := newTestHandler(repo)
	req, err := http.NewRequest("DELETE", fmt.Sprintf("/workouts/%d", created.ID), nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_AddExercise(t *testing.T) {
	repo := newRepoMock()
	repo.knownExercises[3] = "Agachamento"
	created, err := repo.Create(t.Context(), TemplateInput{Name: ptr("Treino Pernas")})
	require.NoError(t, err)

	router := newTestHandler(repo)
	reqBody := `{"exercise_id":3,"sets":5,"reps":5,"initial_weight":60,"rest_seconds":120}`
	req, err := http.NewRequest(
		"POST",
		fmt.Sprintf("/workouts/%d/exercises", created.ID),
		strings.NewReader(reqBody),
	)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var added TemplateExercise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, 3, added.ExerciseID)
	assert.Equal(t, 5, added.Sets)
	assert.Equal(t, float64(60), added.InitialWeight)
	assert.Equal(t, 120, added.RestSeconds)
}

func TestHandler_AddExercise_Validation(t *testing.T) {
	repo := newRepoMock()
	created, err := repo.Create(t.Context(), TemplateInput{Name: ptr("Treino Pernas")})
	require.NoError(t, err)

	router := newTestHandler(repo)
	req, err := http.NewRequest(
		"POST",
		fmt.Sprintf("/workouts/%d/exercises", created.ID),
		strings.NewReader(`{"sets":0,"reps":-1}`),
	)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{
		"error": "Dados inválidos",
		"details": [
			"Exercício é obrigatório",
			"Número de séries deve ser maior que zero",
			"Número de repetições deve ser maior que zero"
		]
	}`, rec.Body.String())
}

func TestHandler_AddExercise_UnknownExercise(t *testing.T) {
	repo := newRepoMock()
	created, err := repo.Create(t.Context(), TemplateInput{Name: ptr("Treino Pernas")})
	require.NoError(t, err)

	router := newTestHandler(repo)
	req, err := http.NewRequest(
		"POST",
		fmt.Sprintf("/workouts/%d/exercises", created.ID),
		strings.NewReader(`{"exercise_id":999,"sets":3,"reps":10}`),
	)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Erro ao adicionar exercício"}`, rec.Body.String())
}

func TestHandler_RemoveExercise(t *testing.T) {
	repo := newRepoMock()
	repo.knownExercises[3] = "Agachamento"
	created, err := repo.Create(t.Context(), TemplateInput{Name: ptr("Treino Pernas")})
	require.NoError(t, err)

	exerciseID, sets, reps := 3, 5, 5
	_, err = repo.AddExercise(t.Context(), created.ID, TemplateExerciseInput{
		ExerciseID: &exerciseID,
		Sets:       &sets,
		Reps:       &reps,
	})
	require.NoError(t, err)

	router := newTestHandler(repo)
	req, err := http.NewRequest(
		"DELETE",
		fmt.Sprintf("/workouts/%d/exercises?exercise_id=3", created.ID),
		nil,
	)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Exercício removido com sucesso"}`, rec.Body.String())
}

func TestHandler_RemoveExercise_BodyPayload(t *testing.T) {
	repo := newRepoMock()
	repo.knownExercises[3] = "Agachamento"
	created, err := repo.Create(t.Context(), TemplateInput{Name: ptr("Treino Pernas")})
	require.NoError(t, err)

	exerciseID, sets, reps := 3, 5, 5
	_, err = repo.AddExercise(t.Context(), created.ID, TemplateExerciseInput{
		ExerciseID: &exerciseID,
		Sets:       &sets,
		Reps:       &reps,
	})
	require.NoError(t, err)

	router := newTestHandler(repo)
	req, err := http.NewRequest(
		"DELETE",
		fmt.Sprintf("/workouts/%d/exercises", created.ID),
		strings.NewReader(`{"exercise_id":3}`),
	)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_RemoveExercise_MissingParam(t *testing.T) {
	router := newTestHandler(newRepoMock())

	req, err := http.NewRequest("DELETE", "/workouts/1/exercises", http.NoBody)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"exercise_id é obrigatório"}`, rec.Body.String())
}

func TestHandler_RemoveExercise_NotInTemplate(t *testing.T) {
	repo := newRepoMock()
	_, err := repo.Create(t.Context(), TemplateInput{Name: ptr("Treino Pernas")})
	require.NoError(t, err)

	router := newTestHandler(repo)
	req, err := http.NewRequest("DELETE", "/workouts/1/exercises?exercise_id=3", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Exercício não encontrado no template"}`, rec.Body.String())
}
