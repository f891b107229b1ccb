package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gymtrack/server/internal/telemetry/metrics"
	"github.com/gymtrack/server/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type exercisesRepo interface {
	Create(ctx context.Context, in ExerciseInput) (*Exercise, error)
	Get(ctx context.Context, id int) (*Exercise, error)
	List(ctx context.Context) ([]Exercise, error)
	ListByMuscleGroup(ctx context.Context, muscleGroup string) ([]Exercise, error)
	Update(ctx context.Context, id int, in ExerciseInput) (*Exercise, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type Handler struct {
	repo    exercisesRepo
	metrics *metrics.Manager
}

func NewHandler(repo exercisesRepo, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metrics,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/exercises", h.handleList).Methods("GET").Name("list-exercises")
	router.HandleFunc("/exercises", h.handleCreate).Methods("POST", "OPTIONS").Name("create-exercise")
	router.HandleFunc("/exercises/{id}", h.handleGet).Methods("GET").Name("get-exercise")
	router.HandleFunc("/exercises/{id}", h.handleUpdate).Methods("PUT", "OPTIONS").Name("update-exercise")
	router.HandleFunc("/exercises/{id}", h.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-exercise")
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in ExerciseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("create exercise, decode request: %s", err)
		pkg.WriteError(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	if validationErrs := ValidateExercise(in); len(validationErrs) > 0 {
		pkg.WriteValidationError(w, "Dados inválidos", validationErrs)
		return
	}

	exercise, err := h.repo.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, ErrExerciseExists) {
			pkg.WriteError(w, "Já existe um exercício com este nome", http.StatusConflict)
			return
		}
		log.Errorf("create exercise: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	h.metrics.CounterExercises.Inc()

	exerciseJson, err := json.Marshal(exercise)
	if err != nil {
		log.Errorf("marshal created exercise: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exerciseJson, http.StatusCreated)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		exercises []Exercise
		err       error
	)
	if group := r.URL.Query().Get("group"); group != "" {
		exercises, err = h.repo.ListByMuscleGroup(r.Context(), group)
	} else {
		exercises, err = h.repo.List(r.Context())
	}
	if err != nil {
		log.Errorf("list exercises: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	exercisesJson, err := json.Marshal(exercises)
	if err != nil {
		log.Errorf("marshal exercises: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteJSONResponseOK(w, exercisesJson)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	exercise, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			pkg.WriteError(w, "Exercício não encontrado", http.StatusNotFound)
			return
		}
		log.Errorf("get exercise %d: %s", id, err)
		pkg.WriteInternalServerError(w)
		return
	}

	exerciseJson, err := json.Marshal(exercise)
	if err != nil {
		log.Errorf("marshal exercise: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteJSONResponseOK(w, exerciseJson)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var in ExerciseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("update exercise, decode request: %s", err)
		pkg.WriteError(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	if validationErrs := ValidateExercisePatch(in); len(validationErrs) > 0 {
		pkg.WriteValidationError(w, "Dados inválidos", validationErrs)
		return
	}

	exercise, err := h.repo.Update(r.Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrExerciseNotFound):
			pkg.WriteError(w, "Exercício não encontrado", http.StatusNotFound)
		case errors.Is(err, ErrExerciseExists):
			pkg.WriteError(w, "Já existe um exercício com este nome", http.StatusConflict)
		default:
			log.Errorf("update exercise %d: %s", id, err)
			pkg.WriteInternalServerError(w)
		}
		return
	}

	exerciseJson, err := json.Marshal(exercise)
	if err != nil {
		log.Errorf("marshal updated exercise: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteJSONResponseOK(w, exerciseJson)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrExerciseInUse) {
			pkg.WriteError(w, "Exercício possui registros de treino e não pode ser excluído", http.StatusConflict)
			return
		}
		log.Errorf("delete exercise %d: %s", id, err)
		pkg.WriteInternalServerError(w)
		return
	}
	if !deleted {
		pkg.WriteError(w, "Exercício não encontrado", http.StatusNotFound)
		return
	}

	pkg.WriteResponseBytes(
		w, pkg.ContentType.JSON,
		[]byte(`{"message":"Exercício excluído com sucesso"}`),
		http.StatusOK,
	)
}
