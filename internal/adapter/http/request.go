package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ppc-sim/internal/core/domain"
)

// errBadRequest marks malformed requests: broken JSON, bad path or query
// parameters.
var errBadRequest = errors.New("bad request")

var errEmptyBody = fmt.Errorf("%w: empty body", errBadRequest)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// decodeJSON reads the request body into v. Invalid configurations reported
// while decoding (unknown campaign or match types) are returned unchanged so
// they map to 422 like any other invalid configuration.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err := dec.Decode(v); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return errEmptyBody
		case errors.Is(err, domain.ErrInvalidConfig):
			return err
		}
		return badRequest("invalid JSON")
	}
	return nil
}

func campaignID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid campaign id")
	}
	return id, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// writeError maps err onto a status code. Unexpected errors are logged and
// answered with a generic message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *domain.InvalidConfigError
	switch {
	case errors.Is(err, errBadRequest):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &invalid):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: invalid.Error(), Field: invalid.Field})
	case errors.Is(err, domain.ErrInvalidConfig):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrCampaignNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: domain.ErrCampaignNotFound.Error()})
	case errors.Is(err, domain.ErrCampaignInactive):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: domain.ErrCampaignInactive.Error()})
	default:
		h.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", RequestID(r.Context())),
			slog.Any("error", err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
