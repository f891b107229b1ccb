package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
}{
	JSON: "application/json",
	Text: "text/plain",
}

func WriteResponse(w http.ResponseWriter, contentType, message string, statusCode int) {
	WriteResponseBytes(w, contentType, []byte(message), statusCode)
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, statusCode int) {
	if contentType != "" {
		w.Header().Add("Content-Type", contentType)
	}

	w.WriteHeader(statusCode)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%s]: %s", message, err)
	}
}

func WriteJSONResponseOK(w http.ResponseWriter, message []byte) {
	WriteResponseBytes(w, ContentType.JSON, message, http.StatusOK)
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// WriteError writes the {"error": ...} envelope with the given status code.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	respJson, err := json.Marshal(errorResponse{Error: message})
	if err != nil {
		log.Errorf("failed to marshal error response [%s]: %s", message, err)
		http.Error(w, message, statusCode)
		return
	}
	WriteResponseBytes(w, ContentType.JSON, respJson, statusCode)
}

// WriteValidationError writes a 400 with the itemized validation messages.
func WriteValidationError(w http.ResponseWriter, message string, details []string) {
	respJson, err := json.Marshal(errorResponse{Error: message, Details: details})
	if err != nil {
		log.Errorf("failed to marshal validation error response: %s", err)
		http.Error(w, message, http.StatusBadRequest)
		return
	}
	WriteResponseBytes(w, ContentType.JSON, respJson, http.StatusBadRequest)
}

func WriteInternalServerError(w http.ResponseWriter) {
	WriteError(w, "Erro interno do servidor", http.StatusInternalServerError)
}
