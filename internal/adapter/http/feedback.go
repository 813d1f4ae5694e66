package httpadapter

import (
	"net/http"

	"ppc-sim/internal/core/domain"
)

// handleFeedback scores the campaign configuration in the body without
// storing it. Broken JSON results in HTTP 400 and configurations the engine
// cannot evaluate in HTTP 422.
func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var cfg domain.CampaignConfig
	if err := h.decodeJSON(w, r, &cfg); err != nil {
		h.writeError(w, r, err)
		return
	}
	fb, err := h.svc.Evaluate(r.Context(), cfg)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, fb)
}

// handleCampaignFeedback returns the feedback stored with a campaign.
func (h *Handler) handleCampaignFeedback(w http.ResponseWriter, r *http.Request) {
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
	h.writeJSON(w, http.StatusOK, c.Feedback)
}
