package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/quickpoll/internal/core/domain"
	"github.com/vncsmyrnk/quickpoll/internal/core/ports"
)

const maxBodyBytes = 1 << 20

type PollHandler struct {
	service ports.PollService
	logger  *slog.Logger
}

func NewPollHandler(service ports.PollService, logger *slog.Logger) *PollHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PollHandler{
		service: service,
		logger:  logger,
	}
}

type createPollRequest struct {
	Title     string          `json:"title"`
	PollType  domain.PollType `json:"poll_type"`
	TimeoutAt *time.Time      `json:"timeout_at"`
	DeleteAt  *time.Time      `json:"delete_at"`
	Options   []string        `json:"poll_options"`
}

// CreatePoll godoc
// @Summary      Creates a poll
// @Description  Creates a poll together with all of its options
// @Tags         polls
// @Accept       json
// @Produce      json
// @Success      201  {object}  domain.Poll
// @Failure      400  {object}  messageResponse
// @Router       /polls [post]
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeMessage(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	input := ports.CreatePollInput{
		Title:     req.Title,
		Type:      req.PollType,
		TimeoutAt: req.TimeoutAt,
		DeleteAt:  req.DeleteAt,
		Options:   req.Options,
	}

	poll, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, poll)
}

// ListPolls godoc
// @Summary      Lists polls
// @Tags         polls
// @Produce      json
// @Success      200  {array}  domain.Poll
// @Router       /polls [get]
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.service.ListPolls(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, polls)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, h.logger, "invalid poll id")
	if !ok {
		return
	}

	poll, err := h.service.GetPoll(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, poll)
}

// GetResults godoc
// @Summary      Vote counts of a poll
// @Description  One entry per option, options without votes included
// @Tags         polls
// @Produce      json
// @Success      200  {array}   domain.OptionCount
// @Failure      404  {object}  messageResponse
// @Router       /polls/{id}/votes [get]
func (h *PollHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, h.logger, "invalid poll id")
	if !ok {
		return
	}

	counts, err := h.service.GetResults(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, counts)
}

// GetGraph godoc
// @Summary      Bar chart of a poll's results
// @Tags         polls
// @Produce      image/svg+xml
// @Success      200
// @Failure      404  {object}  messageResponse
// @Router       /polls/{id}/graph [get]
func (h *PollHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, h.logger, "invalid poll id")
	if !ok {
		return
	}

	svg, err := h.service.RenderChart(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(svg); err != nil {
		h.logger.Error("failed to write chart", "poll_id", id, "error", err)
	}
}

func (h *PollHandler) GetOption(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, h.logger, "invalid poll option id")
	if !ok {
		return
	}

	option, err := h.service.GetOption(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, option)
}

func parseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger, message string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, logger, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}
