package httpadapter

import (
	"net/http"
	"strconv"

	"ppc-sim/internal/core/domain"
	"ppc-sim/internal/core/port"
)

type statusReq struct {
	Status string `json:"status"`
}

type listResp struct {
	Campaigns []domain.Campaign `json:"campaigns"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}

// handleCreateCampaign evaluates and stores the campaign in the body. It
// answers 201 with the stored campaign and its feedback.
func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var cfg domain.CampaignConfig
	if err := h.decodeJSON(w, r, &cfg); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.CreateCampaign(r.Context(), cfg)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/campaigns/"+strconv.FormatInt(c.ID, 10))
	h.writeJSON(w, http.StatusCreated, c)
}

// handleListCampaigns accepts optional `status`, `limit` and `offset` query
// parameters.
func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	var (
		q      = r.URL.Query()
		filter port.CampaignFilter
		err    error
	)
	if s := q.Get("status"); s != "" {
		status, err := domain.ParseCampaignStatus(s)
		if err != nil {
			h.writeError(w, r, badRequest("invalid status"))
			return
		}
		filter.Status = &status
	}
	if s := q.Get("limit"); s != "" {
		if filter.Limit, err = strconv.Atoi(s); err != nil {
			h.writeError(w, r, badRequest("invalid limit"))
			return
		}
	}
	if s := q.Get("offset"); s != "" {
		if filter.Offset, err = strconv.Atoi(s); err != nil {
			h.writeError(w, r, badRequest("invalid offset"))
			return
		}
	}

	campaigns, err := h.svc.ListCampaigns(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if campaigns == nil {
		campaigns = []domain.Campaign{}
	}
	h.writeJSON(w, http.StatusOK, listResp{Campaigns: campaigns, Limit: filter.Limit, Offset: filter.Offset})
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.GetCampaign(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

// handleUpdateCampaign replaces the configuration of a campaign and returns
// it with fresh feedback.
func (h *Handler) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var cfg domain.CampaignConfig
	if err = h.decodeJSON(w, r, &cfg); err != nil {
		h.writeError(w, r, err)
		return
	}
	c, err := h.svc.UpdateCampaign(r.Context(), id, cfg)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req statusReq
	if err = h.decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	status, err := domain.ParseCampaignStatus(req.Status)
	if err != nil {
		h.writeError(w, r, badRequest("invalid status"))
		return
	}
	c, err := h.svc.SetStatus(r.Context(), id, status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := campaignID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err = h.svc.DeleteCampaign(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
