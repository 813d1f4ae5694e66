package httpadapter

import (
	"errors"
	"net/http"
	"time"
)

type simulateReq struct {
	StartDate string `json:"startDate"`
}

// handleSimulate generates a week of performance data for a campaign. The
// body is optional; without a startDate the week starts today (UTC).
// Paused or archived campaigns result in HTTP 409.
func (h *Handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req simulateReq
	if err = h.decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.writeError(w, r, err)
		return
	}

	var start time.Time
	if req.StartDate != "" {
		if start, err = time.Parse(time.DateOnly, req.StartDate); err != nil {
			h.writeError(w, r, badRequest("invalid 'startDate', expected YYYY-MM-DD"))
			return
		}
	}

	resp, err := h.svc.SimulateWeek(r.Context(), id, start)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, resp)
}
