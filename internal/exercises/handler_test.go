package exercises

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gymtrack/server/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func newTestHandler(repo *repoMock) *mux.Router {
	router := mux.NewRouter()
	handler := NewHandler(repo, metrics.NewTestManager())
	handler.SetupRoutes(router)
	return router
}

func TestHandler_Create(t *testing.T) {
	repo := newRepoMock()
	router := newTestHandler(repo)

	reqBody := `{"name":"Supino Reto","muscle_group":"Peito","video_url":"https://youtu.be/abc"}`
	req, err := http.NewRequest("POST", "/exercises", strings.NewReader(reqBody))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created Exercise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "Supino Reto", created.Name)
	assert.Equal(t, "Peito", created.MuscleGroup)
	require.NotNil(t, created.VideoURL)
	assert.Equal(t, "https://youtu.be/abc", *created.VideoURL)
}

func TestHandler_Create_ValidationErrors(t *testing.T) {
	router := newTestHandler(newRepoMock())

	req, err := http.NewRequest("POST", "/exercises", strings.NewReader(`{"video_url":"notaurl"}`))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{
		"error": "Dados inválidos",
		"details": [
			"Nome do exercício é obrigatório",
			"Grupo muscular é obrigatório",
			"URL do vídeo deve ser válida"
		]
	}`, rec.Body.String())
}

func TestHandler_Create_DuplicateName(t *testing.T) {
	repo := newRepoMock()
	router := newTestHandler(repo)

	reqBody := `{"name":"Agachamento","muscle_group":"Pernas"}`
	for i, wantStatus := range []int{http.StatusCreated, http.StatusConflict} {
		req, err := http.NewRequest("POST", "/exercises", strings.NewReader(reqBody))
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, wantStatus, rec.Code, "request %d", i)
	}
}

func TestHandler_List(t *testing.T) {
	repo := newRepoMock()
	_, err := repo.Create(t.Context(), ExerciseInput{Name: ptr("Remada Curvada"), MuscleGroup: ptr("Costas")})
	require.NoError(t, err)
	_, err = repo.Create(t.Context(), ExerciseInput{Name: ptr("Rosca Direta"), MuscleGroup: ptr("Bíceps")})
	require.NoError(t, err)

	router := newTestHandler(repo)
	req, err := http.NewRequest("GET", "/exercises", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var listed []Exercise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func TestHandler_List_FilterByGroup(t *testing.T) {
	repo := newRepoMock()
	_, err := repo.Create(t.Context(), ExerciseInput{Name: ptr("Remada Curvada"), MuscleGroup: ptr("Costas")})
	require.NoError(t, err)
	_, err = repo.Create(t.Context(), ExerciseInput{Name: ptr("Rosca Direta"), MuscleGroup: ptr("Bíceps")})
	require.NoError(t, err)

	router := newTestHandler(repo)
	req, err := http.NewRequest("GET", "/exercises?group=Costas", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var listed []Exercise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Remada Curvada", listed[0].Name)
}

func TestHandler_Get(t *testing.T) {
	repo := newRepoMock()
	created, err := repo.Create(t.Context(), ExerciseInput{Name: ptr("Leg Press"), MuscleGroup: ptr("Pernas")})
	require.NoError(t, err)

	router := newTestHandler(repo)

	req, err := http.NewRequest("GET", fmt.Sprintf("/exercises/%d", created.ID), nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got Exercise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Leg Press", got.Name)
}

func TestHandler_Get_NotFound(t *testing.T) {
	router := newTestHandler(newRepoMock())

	req, err := http.NewRequest("GET", "/exercises/1234", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Exercício não encontrado"}`, rec.Body.String())
}

func TestHandler_Get_InvalidID(t *testing.T) {
	router := newTestHandler(newRepoMock())

	req, err := http.NewRequest("GET", "/exercises/abc", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"ID inválido"}`, rec.Body.String())
}

func TestHandler_Update(t *testing.T) {
	repo := newRepoMock()
	created, err := repo.Create(t.Context(), ExerciseInput{Name: ptr("Supino"), MuscleGroup: ptr("Peito")})
	require.NoError(t, err)

	router := newTestHandler(repo)

	reqBody := `{"name":"Supino Inclinado"}`
	req, err := http.NewRequest("PUT", fmt.Sprintf("/exercises/%d", created.ID), strings.NewReader(reqBody))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var updated Exercise
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Supino Inclinado", updated.Name)
	assert.Equal(t, "Peito", updated.MuscleGroup)
}

func TestHandler_Update_BlankName(t *testing.T) {
	repo := newRepoMock()
	created, err := repo.Create(t.Context(), ExerciseInput{Name: ptr("Supino"), MuscleGroup: ptr("Peito")})
	require.NoError(t, err)

	router := newTestHandler(repo)

	req, err := http.NewRequest("PUT", fmt.Sprintf("/exercises/%d", created.ID), strings.NewReader(`{"name":"  "}`))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Dados inválidos","details":["Nome do exercício é obrigatório"]}`, rec.Body.String())
}

func TestHandler_Update_NotFound(t *testing.T) {
	router := newTestHandler(newRepoMock())

	req, err := http.NewRequest("PUT", "/exercises/55", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Delete(t *testing.T) {
	repo := newRepoMock()
	created, err := repo.Create(t.Context(), ExerciseInput{Name: ptr("Crucifixo"), MuscleGroup: ptr("Peito")})
	require.NoError(t, err)

	router := newTestHandler(repo)

	req, err := http.NewRequest("DELETE", fmt.Sprintf("/exercises/%d", created.ID), nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Exercício excluído com sucesso"}`, rec.Body.String())

	_, err = repo.Get(t.Context(), created.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestHandler_Delete_InUse(t *testing.T) {
	repo := newRepoMock()
	created, err := repo.Create(t.Context(), ExerciseInput{Name: ptr("Crucifixo"), MuscleGroup: ptr("Peito")})
	require.NoError(t, err)
	repo.inUse[created.ID] = true

	router := newTestHandler(repo)

	req, err := http.NewRequest("DELETE", fmt.Sprintf("/exercises/%d", created.ID), nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Exercício possui registros de treino e não pode ser excluído"}`, rec.Body.String())
}

func TestHandler_Delete_NotFound(t *testing.T) {
	router := newTestHandler(newRepoMock())

	req, err := http.NewRequest("DELETE", "/exercises/99", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
