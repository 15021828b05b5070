package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lehmann314159/flashdeck/internal/leitner"
	"github.com/lehmann314159/flashdeck/internal/models"
	"github.com/lehmann314159/flashdeck/internal/repository"
	"github.com/lehmann314159/flashdeck/internal/services"
)

// Handler contains all HTTP handlers
type Handler struct {
	practice *services.PracticeService
	log      *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(practice *services.PracticeService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		practice: practice,
		log:      log,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps domain errors to HTTP statuses
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, leitner.ErrNegativeDay),
		errors.Is(err, repository.ErrInvalidTimestamp):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "flashcard not found")
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrUnavailable):
		h.log.Warn("store unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
	default:
		h.log.Error(fallback, zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// GetPractice handles GET /api/v1/practice?day=N
func (h *Handler) GetPractice(w http.ResponseWriter, r *http.Request) {
	dayStr := r.URL.Query().Get("day")
	if dayStr == "" {
		writeError(w, http.StatusBadRequest, "day is required")
		return
	}

	n, err := strconv.ParseInt(dayStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day")
		return
	}

	day, err := leitner.NewDay(n)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.practice.GetDueItems(r.Context(), day)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to select practice cards")
		return
	}

	dueCards.Observe(float64(len(session.Cards)))
	writeJSON(w, http.StatusOK, session)
}

// SubmitAnswer handles POST /api/v1/answers
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.practice.SubmitAnswer(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to record answer")
		return
	}

	answersTotal.WithLabelValues(record.Difficulty.String()).Inc()
	writeJSON(w, http.StatusOK, record)
}

// GetProgress handles GET /api/v1/progress
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	stats, err := h.practice.GetProgress(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "failed to compute progress")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// GetHint handles GET /api/v1/hint?front=&back=
func (h *Handler) GetHint(w http.ResponseWriter, r *http.Request) {
	key := models.CardKey{
		Front: r.URL.Query().Get("front"),
		Back:  r.URL.Query().Get("back"),
	}
	if key.Front == "" || key.Back == "" {
		writeError(w, http.StatusBadRequest, "front and back are required")
		return
	}

	hint, err := h.practice.GetHint(r.Context(), key)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to get hint")
		return
	}

	writeJSON(w, http.StatusOK, models.HintResponse{Hint: hint})
}

// ListCards handles GET /api/v1/cards
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	filter := models.CardFilter{
		Search: r.URL.Query().Get("search"),
		Tag:    r.URL.Query().Get("tag"),
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	cards, err := h.practice.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to list flashcards")
		return
	}

	count, err := h.practice.Count(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "failed to count flashcards")
		return
	}

	response := map[string]any{
		"cards": cards,
		"total": count,
	}

	if cards == nil {
		response["cards"] = []any{}
	}

	writeJSON(w, http.StatusOK, response)
}

// GetCard handles GET /api/v1/cards/{id}
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card ID")
		return
	}

	card, err := h.practice.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to get flashcard")
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// CreateCard handles POST /api/v1/cards
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	card, err := h.practice.AddFlashcard(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create flashcard")
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

// ImportCards handles POST /api/v1/cards/import
func (h *Handler) ImportCards(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form
	err := r.ParseMultipartForm(10 << 20) // 10 MB max
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	result, err := h.practice.ImportCSV(r.Context(), file)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to import flashcards")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ExportCards handles GET /api/v1/cards/export
func (h *Handler) ExportCards(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=flashcards.csv")

	err := h.practice.ExportCSV(r.Context(), w)
	if err != nil {
		// Reset headers since we already set them
		w.Header().Set("Content-Type", "application/json")
		h.writeServiceError(w, r, err, "failed to export flashcards")
		return
	}
}
