package domain

import (
	"time"
)

// PerformanceMetric is one simulated day of traffic for a single target of a
// campaign. Target is the keyword text for manual campaigns or the auto
// targeting option for automatic ones.
type PerformanceMetric struct {
	ID          int64
	RunID       string
	CampaignID  int64
	MetricDate  time.Time
	AdGroup     string
	Target      string
	MatchType   MatchType // empty for auto targets
	Impressions int64
	Clicks      int64
	Spend       float64
	Orders      int64
	Sales       float64
	CreatedAt   time.Time
}

// PerformanceTotals sums performance metrics over a period.
type PerformanceTotals struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Spend       float64 `json:"spend"`
	Orders      int64   `json:"orders"`
	Sales       float64 `json:"sales"`
}

// Ratios derives the usual PPC ratios from the totals. Each ratio is zero
// when its denominator is zero. CTR, CVR and ACOS are percentages.
func (t PerformanceTotals) Ratios() PerformanceRatios {
	var r PerformanceRatios
	if t.Impressions > 0 {
		r.CTR = float64(t.Clicks) / float64(t.Impressions) * 100
	}
	if t.Clicks > 0 {
		r.CVR = float64(t.Orders) / float64(t.Clicks) * 100
		r.CPC = t.Spend / float64(t.Clicks)
	}
	if t.Sales > 0 {
		r.ACOS = t.Spend / t.Sales * 100
	}
	if t.Spend > 0 {
		r.ROAS = t.Sales / t.Spend
	}
	return r
}

// PerformanceRatios are derived from PerformanceTotals.
type PerformanceRatios struct {
	CTR  float64 `json:"ctr"`
	CVR  float64 `json:"cvr"`
	CPC  float64 `json:"cpc"`
	ACOS float64 `json:"acos"`
	ROAS float64 `json:"roas"`
}
