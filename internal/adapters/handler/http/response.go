package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/vncsmyrnk/quickpoll/internal/core/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, messageResponse{Message: message})
}

// writeError answers err with the status of its class. Anything that is not
// a client error is logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, message := classify(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
	writeMessage(w, logger, status, message)
}

var publicErrors = []error{
	domain.ErrPollNotFound,
	domain.ErrOptionNotFound,
	domain.ErrAlreadyVotedForOption,
	domain.ErrSingleVoteOnly,
}

func classify(err error) (int, string) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Reason
	}

	message := ""
	for _, public := range publicErrors {
		if errors.Is(err, public) {
			message = public.Error()
			break
		}
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, orDefault(message, "invalid request")
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, orDefault(message, "not found")
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, orDefault(message, "conflict")
	default:
		return http.StatusInternalServerError, domain.ErrInternal.Error()
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
