package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"interviewsim/internal/engine"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondWithQuizError answers a rejected quiz action. Rule violations are
// the player's doing and are not logged; anything else is a server fault.
func respondWithQuizError(w http.ResponseWriter, err error) {
	status := quizErrorStatus(err)
	if status == http.StatusInternalServerError {
		respondWithError(w, status, ErrInternalServerError, "Quiz action failed", err)
		return
	}
	respondWithError(w, status, err.Error(), "", nil)
}

func quizErrorStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidTopic):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNoSelection),
		errors.Is(err, engine.ErrChoiceUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrAlreadyAnswered),
		errors.Is(err, engine.ErrNotAnswered),
		errors.Is(err, engine.ErrNoLifelinesLeft),
		errors.Is(err, engine.ErrSessionComplete),
		errors.Is(err, engine.ErrNoSession):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
