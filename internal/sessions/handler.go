package sessions

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

type sessionsRepo interface {
	CreateSession(ctx context.Context, in SessionInput) (*WorkoutSession, error)
	GetSession(ctx context.Context, id int) (*WorkoutSession, error)
	GetSessionWithLogs(ctx context.Context, id int) (*SessionWithLogs, error)
	ListSessions(ctx context.Context) ([]WorkoutSession, error)
	ListSessionsByTemplate(ctx context.Context, templateID int) ([]WorkoutSession, error)
	UpdateSession(ctx context.Context, id int, in SessionInput) (*WorkoutSession, error)
	DeleteSession(ctx context.Context, id int) (bool, error)

	CreateLog(ctx context.Context, in LogInput) (*ExerciseLog, error)
	UpdateLog(ctx context.Context, id int, in LogInput) (*ExerciseLog, error)
	DeleteLog(ctx context.Context, id int) (bool, error)
}

type evolutionAnalyzer interface {
	ExerciseEvolution(ctx context.Context, exerciseID int) (*Evolution, error)
}

type Handler struct {
	repo     sessionsRepo
	analyzer evolutionAnalyzer
	metrics  *metrics.Manager
}

func NewHandler(repo sessionsRepo, analyzer evolutionAnalyzer, metrics *metrics.Manager) *Handler {
	return &Handler{
		repo:     repo,
		analyzer: analyzer,
		metrics:  metrics,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/sessions", h.handleList).Methods("GET").Name("list-sessions")
	router.HandleFunc("/sessions", h.handleCreate).Methods("POST", "OPTIONS").Name("create-session")
	router.HandleFunc("/sessions/{id}", h.handleGet).Methods("GET").Name("get-session")
	router.HandleFunc("/sessions/{id}", h.handleUpdate).Methods("PUT", "OPTIONS").Name("update-session")
	router.HandleFunc("/sessions/{id}", h.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-session")
	router.HandleFunc("/sessions/{id}/logs", h.handleCreateLog).Methods("POST", "OPTIONS").Name("create-session-log")
	router.HandleFunc("/logs/{id}", h.handleUpdateLog).Methods("PUT", "OPTIONS").Name("update-log")
	router.HandleFunc("/logs/{id}", h.handleDeleteLog).Methods("DELETE", "OPTIONS").Name("delete-log")
	router.HandleFunc("/exercises/{id}/evolution", h.handleEvolution).Methods("GET").Name("exercise-evolution")
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in SessionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("create session, decode request: %s", err)
		pkg.WriteError(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	if validationErrs := ValidateSession(in); len(validationErrs) > 0 {
		pkg.WriteValidationError(w, "Dados inválidos", validationErrs)
		return
	}

	session, err := h.repo.CreateSession(r.Context(), in)
	if err != nil {
		if errors.Is(err, ErrTemplateMissing) {
			pkg.WriteError(w, "Ficha de treino não encontrada", http.StatusBadRequest)
			return
		}
		log.Errorf("create session: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	h.metrics.CounterSessionsStarted.Inc()

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("marshal created session: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, sessionJson, http.StatusCreated)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var (
		all []WorkoutSession
		err error
	)
	if templateParam := r.URL.Query().Get("workout_template_id"); templateParam != "" {
		templateID, convErr := strconv.Atoi(templateParam)
		if convErr != nil {
			pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
			return
		}
		all, err = h.repo.ListSessionsByTemplate(r.Context(), templateID)
	} else {
		all, err = h.repo.ListSessions(r.Context())
	}
	if err != nil {
		log.Errorf("list sessions: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	sessionsJson, err := json.Marshal(all)
	if err != nil {
		log.Errorf("marshal sessions: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteJSONResponseOK(w, sessionsJson)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	session, err := h.repo.GetSessionWithLogs(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteError(w, "Sessão de treino não encontrada", http.StatusNotFound)
			return
		}
		log.Errorf("get session %d: %s", id, err)
		pkg.WriteInternalServerError(w)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("marshal session: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteJSONResponseOK(w, sessionJson)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var in SessionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("update session, decode request: %s", err)
		pkg.WriteError(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	if in.DurationMinutes != nil && *in.DurationMinutes < 0 {
		pkg.WriteValidationError(w, "Dados inválidos", []string{"Duração não pode ser negativa"})
		return
	}

	session, err := h.repo.UpdateSession(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			pkg.WriteError(w, "Sessão de treino não encontrada", http.StatusNotFound)
			return
		}
		log.Errorf("update session %d: %s", id, err)
		pkg.WriteInternalServerError(w)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("marshal updated session: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteJSONResponseOK(w, sessionJson)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	deleted, err := h.repo.DeleteSession(r.Context(), id)
	if err != nil {
		log.Errorf("delete session %d: %s", id, err)
		pkg.WriteInternalServerError(w)
		return
	}
	if !deleted {
		pkg.WriteError(w, "Sessão de treino não encontrada", http.StatusNotFound)
		return
	}

	pkg.WriteResponseBytes(
		w, pkg.ContentType.JSON,
		[]byte(`{"message":"Sessão excluída com sucesso"}`),
		http.StatusOK,
	)
}

func (h *Handler) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var in LogInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("create log, decode request: %s", err)
		pkg.WriteError(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	// the session comes from the URL, not the payload
	in.SessionID = &sessionID

	if validationErrs := ValidateLog(in); len(validationErrs) > 0 {
		pkg.WriteValidationError(w, "Dados inválidos", validationErrs)
		return
	}

	exerciseLog, err := h.repo.CreateLog(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionMissing):
			pkg.WriteError(w, "Sessão de treino não encontrada", http.StatusNotFound)
		case errors.Is(err, ErrSessionFinished):
			pkg.WriteError(w, "Sessão já finalizada", http.StatusBadRequest)
		case errors.Is(err, ErrExerciseMissing):
			pkg.WriteError(w, "Exercício não encontrado", http.StatusBadRequest)
		default:
			log.Errorf("create log for session %d: %s", sessionID, err)
			pkg.WriteInternalServerError(w)
		}
		return
	}

	h.metrics.CounterExerciseLogs.Inc()

	logJson, err := json.Marshal(exerciseLog)
	if err != nil {
		log.Errorf("marshal created log: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, logJson, http.StatusCreated)
}

func (h *Handler) handleUpdateLog(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	var in LogInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("update log, decode request: %s", err)
		pkg.WriteError(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	exerciseLog, err := h.repo.UpdateLog(r.Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrLogNotFound):
			pkg.WriteError(w, "Log de exercício não encontrado", http.StatusNotFound)
		case errors.Is(err, ErrSessionFinished):
			pkg.WriteError(w, "Sessão já finalizada", http.StatusBadRequest)
		default:
			log.Errorf("update log %d: %s", id, err)
			pkg.WriteInternalServerError(w)
		}
		return
	}

	logJson, err := json.Marshal(exerciseLog)
	if err != nil {
		log.Errorf("marshal updated log: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteJSONResponseOK(w, logJson)
}

func (h *Handler) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	deleted, err := h.repo.DeleteLog(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSessionFinished) {
			pkg.WriteError(w, "Sessão já finalizada", http.StatusBadRequest)
			return
		}
		log.Errorf("delete log %d: %s", id, err)
		pkg.WriteInternalServerError(w)
		return
	}
	if !deleted {
		pkg.WriteError(w, "Log de exercício não encontrado", http.StatusNotFound)
		return
	}

	pkg.WriteResponseBytes(
		w, pkg.ContentType.JSON,
		[]byte(`{"message":"Log excluído com sucesso"}`),
		http.StatusOK,
	)
}

func (h *Handler) handleEvolution(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pkg.WriteError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	evolution, err := h.analyzer.ExerciseEvolution(r.Context(), exerciseID)
	if err != nil {
		log.Errorf("exercise %d evolution: %s", exerciseID, err)
		pkg.WriteInternalServerError(w)
		return
	}

	evolutionJson, err := json.Marshal(evolution)
	if err != nil {
		log.Errorf("marshal evolution: %s", err)
		pkg.WriteInternalServerError(w)
		return
	}

	pkg.WriteJSONResponseOK(w, evolutionJson)
}
