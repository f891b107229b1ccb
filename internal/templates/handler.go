package templates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gymtrack/server/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type templatesRepo interface {
	Create(ctx context.Context, in TemplateInput) (*Template, error)
	Get(ctx context.Context, id int) (*Template, error)
	List(ctx context.Context) ([]Template, error)
	GetWithExercises(ctx context.Context, id int) (*TemplateWithExercises, error)
	Update(ctx context.Context, id int, in TemplateInput) (*Template, error)
	Delete(ctx context.Context, id int) (bool, error)
	AddExercise(ctx context.Context, templateID int, in TemplateExerciseInput) (*TemplateExercise, error)
	RemoveExercise(ctx context.Context, templateID, exerciseID int) (bool, error)
}

type Handler struct {
	repo templatesRepo
}

func NewHandler(repo templatesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/workouts", h.handleList).Methods("GET").Name("list-workouts")
	router.HandleFunc("/workouts", h.handleCreate).Methods("POST", "OPTIONS").Name("create-workout")
	router.HandleFunc("/workouts/{id}", h.handleGet).Methods("GET").Name("get-workout")
	router.HandleFunc("/workouts/{id}", h.handleUpdate).Methods("PUT", "OPTIONS").Name("update-workout")
	router.HandleFunc("/workouts/{id}", h.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
	router.HandleFunc("/workouts/{id}/exercises", h.handleAddExercise).Methods("POST", "OPTIONS").Name("add-workout-exercise")
	router.HandleFunc("/workouts/{id}/exercises", h.handleRemoveExercise).Methods("DELETE", "OPTIONS").Name("remove-workout-exercise")
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("create workout template, decode request: %s", err)
		pkg.WriteError(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	if validationErrs := ValidateTemplate(in); len(validationErrs) > 0 {
		pkg.WriteValidationError(w, "Dados inválidos", validationErrs)
		return
	}

	template, err := h.repo.Create(r.Context(), in)
	if err != nil {
		log.Errorf("create workout template: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	templateJson, err := json.Marshal(template)
	if err != nil {
		log.Errorf("marshal created template: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, templateJson, http.StatusCreated)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.List(r.Context())
	if err != nil {
		log.Errorf("list workout templates: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	templatesJson, err := json.Marshal(all)
	if err != nil {
		log.Errorf("marshal templates: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteJSONResponseOK(w, templatesJson)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	template, err := h.repo.GetWithExercises(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			pkg.WriteError(w, "Ficha de treino não encontrada", http.StatusNotFound)
			return
		}
		log.Errorf("get workout template %d: %s", id, err)
		pkg.WriteInternalServerError(w)
		return
	}

	templateJson, err := json.Marshal(template)
	if err != nil {
		log.Errorf("marshal template: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteJSONResponseOK(w, templateJson)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var in TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("update workout template, decode request: %s", err)
		pkg.WriteError(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	template, err := h.repo.Update(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			pkg.WriteError(w, "Ficha de treino não encontrada", http.StatusNotFound)
			return
		}
		log.Errorf("update workout template %d: %s", id, err)
		pkg.WriteInternalServerError(w)
		return
	}

	templateJson, err := json.Marshal(template)
	if err != nil {
		log.Errorf("marshal updated template: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteJSONResponseOK(w, templateJson)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTemplateInUse) {
			pkg.WriteError(w, "Ficha de treino possui sessões registradas e não pode ser excluída", http.StatusConflict)
			return
		}
		log.Errorf("delete workout template %d: %s", id, err)
		pkg.WriteInternalServerError(w)
		return
	}
	if !deleted {
		pkg.WriteError(w, "Ficha de treino não encontrada", http.StatusNotFound)
		return
	}

	pkg.WriteResponseBytes(
		w, pkg.ContentType.JSON,
		[]byte(`{"message":"Ficha de treino excluída com sucesso"}`),
		http.StatusOK,
	)
}

func (h *Handler) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var in TemplateExerciseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("add template exercise, decode request: %s", err)
		pkg.WriteError(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	if validationErrs := ValidateTemplateExercise(in); len(validationErrs) > 0 {
		pkg.WriteValidationError(w, "Dados inválidos", validationErrs)
		return
	}

	if _, err := h.repo.Get(r.Context(), id); err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			pkg.WriteError(w, "Ficha de treino não encontrada", http.StatusNotFound)
			return
		}
		log.Errorf("get workout template %d: %s", id, err)
		pkg.WriteInternalServerError(w)
		return
	}

	added, err := h.repo.AddExercise(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrExerciseMissing) {
			pkg.WriteError(w, "Erro ao adicionar exercício", http.StatusBadRequest)
			return
		}
		log.Errorf("add exercise to template %d: %s", id, err)
		pkg.WriteInternalServerError(w)
		return
	}

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal template exercise: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (h *Handler) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	// exercise_id comes either as a query param or in the body
	var exerciseID int
	if exerciseIDParam := r.URL.Query().Get("exercise_id"); exerciseIDParam != "" {
		exerciseID, err = strconv.Atoi(exerciseIDParam)
		if err != nil {
			pkg.WriteError(w, "exercise_id é obrigatório", http.StatusBadRequest)
			return
		}
	} else {
		var body struct {
			ExerciseID int `json:"exercise_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ExerciseID <= 0 {
			pkg.WriteError(w, "exercise_id é obrigatório", http.StatusBadRequest)
			return
		}
		exerciseID = body.ExerciseID
	}

	removed, err := h.repo.RemoveExercise(r.Context(), id, exerciseID)
	if err != nil {
		log.Errorf("remove exercise %d from template %d: %s", exerciseID, id, err)
		pkg.WriteInternalServerError(w)
		return
	}
	if !removed {
		pkg.WriteError(w, "Exercício não encontrado no template", http.StatusNotFound)
		return
	}

	pkg.WriteResponseBytes(
		w, pkg.ContentType.JSON,
		[]byte(`{"message":"Exercício removido com sucesso"}`),
		http.StatusOK,
	)
}
