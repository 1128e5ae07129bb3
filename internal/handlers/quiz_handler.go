package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"interviewsim/internal/models"
	"interviewsim/internal/security"
	"interviewsim/internal/service"
	"interviewsim/internal/validation"
)

// QuizHandler serves the quiz session JSON API
type QuizHandler struct {
	quizService *service.QuizService
	limiter     *security.RateLimiter
}

// NewQuizHandler creates a new quiz handler. limiter may be nil.
func NewQuizHandler(quizService *service.QuizService, limiter *security.RateLimiter) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		limiter:     limiter,
	}
}

// RegisterRoutes adds the quiz endpoints to mux
func (h *QuizHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/topics", h.ListTopics)
	mux.HandleFunc("GET /api/session", h.GetSession)
	mux.HandleFunc("POST /api/session/start", RateLimit(h.limiter, h.StartTopic))
	mux.HandleFunc("POST /api/session/select", RateLimit(h.limiter, h.SelectChoice))
	mux.HandleFunc("POST /api/session/submit", RateLimit(h.limiter, h.Submit))
	mux.HandleFunc("GET /api/session/hint", RateLimit(h.limiter, h.Hint))
	mux.HandleFunc("POST /api/session/lifeline", RateLimit(h.limiter, h.Lifeline))
	mux.HandleFunc("POST /api/session/skip", RateLimit(h.limiter, h.Skip))
	mux.HandleFunc("POST /api/session/next", RateLimit(h.limiter, h.Next))
	mux.HandleFunc("GET /api/runs", h.ListRuns)
	mux.HandleFunc("GET /api/runs/{runId}", h.GetRun)
	mux.HandleFunc("GET /api/topics/missed", h.MissedQuestions)
}

type startRequest struct {
	Topic string `json:"topic"`
}

// selectRequest names a choice either by index or by its letter
type selectRequest struct {
	Choice *int   `json:"choice"`
	Label  string `json:"label"`
}

// ListTopics returns every topic with its question count
func (h *QuizHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, TopicsView{Topics: h.quizService.Topics()})
}

// GetSession returns the current session view
func (h *QuizHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newSessionView(h.quizService.Snapshot()))
}

// StartTopic begins a new run
func (h *QuizHandler) StartTopic(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}
	if err := validation.ValidateTopicName(req.Topic); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	h.respondWithSnapshot(w, func() (service.Snapshot, error) {
		return h.quizService.Start(req.Topic)
	})
}

// SelectChoice marks the player's pick
func (h *QuizHandler) SelectChoice(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", nil)
		return
	}

	idx, ok := req.index()
	if !ok {
		respondWithError(w, http.StatusBadRequest, ErrInvalidChoice, "", nil)
		return
	}

	h.respondWithSnapshot(w, func() (service.Snapshot, error) {
		return h.quizService.Select(idx)
	})
}

// Submit scores the selected choice; the response carries the feedback
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.respondWithSnapshot(w, h.quizService.Submit)
}

// Hint returns the current question's hint
func (h *QuizHandler) Hint(w http.ResponseWriter, r *http.Request) {
	hint, err := h.quizService.Hint()
	if err != nil {
		respondWithQuizError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, HintView{Hint: hint})
}

// Lifeline spends the 50/50
func (h *QuizHandler) Lifeline(w http.ResponseWriter, r *http.Request) {
	h.respondWithSnapshot(w, h.quizService.Lifeline)
}

// Skip moves past the current question
func (h *QuizHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.respondWithSnapshot(w, h.quizService.Skip)
}

// Next advances after a submitted question
func (h *QuizHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.respondWithSnapshot(w, h.quizService.Advance)
}

// ListRuns returns recorded runs, newest first, optionally for one topic
func (h *QuizHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidLimit, "", nil)
		return
	}

	runs, err := h.quizService.RecentRuns(limit, r.URL.Query().Get("topic"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error listing runs", err)
		return
	}
	if runs == nil {
		runs = []models.RunResult{}
	}
	respondJSON(w, http.StatusOK, RunsView{Runs: runs})
}

// GetRun returns one recorded run with its answers
func (h *QuizHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.quizService.Run(r.PathValue("runId"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading run", err)
		return
	}
	if run == nil {
		respondWithError(w, http.StatusNotFound, ErrRunNotFound, "", nil)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// MissedQuestions lists a topic's most often missed prompts
func (h *QuizHandler) MissedQuestions(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		respondWithError(w, http.StatusBadRequest, ErrTopicRequired, "", nil)
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidLimit, "", nil)
		return
	}

	missed, err := h.quizService.MissedQuestions(topic, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error listing missed questions", err)
		return
	}
	if missed == nil {
		missed = []models.MissedQuestion{}
	}
	respondJSON(w, http.StatusOK, MissedView{Topic: topic, Questions: missed})
}

func (h *QuizHandler) respondWithSnapshot(w http.ResponseWriter, action func() (service.Snapshot, error)) {
	snap, err := action()
	if err != nil {
		respondWithQuizError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newSessionView(snap))
}

func (req selectRequest) index() (int, bool) {
	if req.Choice != nil {
		return *req.Choice, true
	}
	if req.Label != "" {
		return models.ParseChoiceLabel(req.Label)
	}
	return 0, false
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultRunsLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if limit <= 0 {
		return 0, errors.New("limit must be positive")
	}
	return min(limit, MaxRunsLimit), nil
}
