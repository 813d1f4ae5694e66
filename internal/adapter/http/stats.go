package httpadapter

import (
	"net/http"
	"strconv"
	"time"

	"ppc-sim/internal/core/port"
)

const defaultStatsDays = 7

// handleStatsOverview returns aggregated performance for campaigns over a
// specified period. It accepts optional `from`, `to` (YYYY-MM-DD or RFC3339)
// and `campaign_id` query parameters. If no period is provided, it defaults
// to the last 7 days including today. Invalid parameters result in HTTP 400.
func (h *Handler) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	var (
		q   = r.URL.Query()
		req port.StatsReq
		err error
	)

	now := time.Now().UTC()
	req.To = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if s := q.Get("to"); s != "" {
		if req.To, err = parseDate(s); err != nil {
			h.writeError(w, r, badRequest("invalid 'to' date"))
			return
		}
	}

	req.From = req.To.AddDate(0, 0, -(defaultStatsDays - 1))
	if s := q.Get("from"); s != "" {
		if req.From, err = parseDate(s); err != nil {
			h.writeError(w, r, badRequest("invalid 'from' date"))
			return
		}
	}

	if req.From.After(req.To) {
		h.writeError(w, r, badRequest("'from' is after 'to'"))
		return
	}

	if cid := q.Get("campaign_id"); cid != "" {
		id, err := strconv.ParseInt(cid, 10, 64)
		if err != nil {
			h.writeError(w, r, badRequest("invalid campaign_id"))
			return
		}
		req.CampaignID = &id
	}

	stats, err := h.svc.GetStats(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// parseDate accepts a calendar date or a full timestamp and returns the UTC
// day it falls on.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return time.Time{}, err
		}
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
