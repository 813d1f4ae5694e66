package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"ppc-sim/internal/core/domain"
	"ppc-sim/internal/core/port"
)

const simulatedDays = 7

// target is one keyword or auto targeting option receiving simulated
// traffic.
type target struct {
	adGroup   string
	name      string
	matchType domain.MatchType
	bid       float64
}

// weekly is the traffic generated for a target over the whole week.
type weekly struct {
	impressions int64
	clicks      int64
	orders      int64
	spend       float64
	sales       float64
}

// SimulateWeek generates seven days of metrics for every target of an
// enabled campaign and stores them as one run.
func (u *CampaignUseCase) SimulateWeek(ctx context.Context, id int64, start time.Time) (*port.SimulationResp, error) {
	c, err := u.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.StatusEnabled {
		return nil, fmt.Errorf("simulate campaign %d (%s): %w", id, c.Status, domain.ErrCampaignInactive)
	}
	if start.IsZero() {
		start = u.now()
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	resp := &port.SimulationResp{
		RunID:      uuid.NewString(),
		CampaignID: id,
		StartDate:  start.Format(time.DateOnly),
	}

	targets := campaignTargets(c.Config)
	resp.Targets = len(targets)
	if len(targets) == 0 {
		u.logger.Info("simulation skipped, campaign has no targets", slog.Int64("campaign_id", id))
		return resp, nil
	}

	metrics := make([]domain.PerformanceMetric, 0, len(targets)*simulatedDays)
	u.rngMu.Lock()
	for _, t := range targets {
		metrics = append(metrics, splitWeek(resp.RunID, id, start, t, u.generate(t))...)
	}
	u.rngMu.Unlock()

	if err = u.repo.InsertMetrics(ctx, metrics); err != nil {
		return nil, fmt.Errorf("store simulation run %s: %w", resp.RunID, err)
	}

	for _, m := range metrics {
		resp.Totals.Impressions += m.Impressions
		resp.Totals.Clicks += m.Clicks
		resp.Totals.Orders += m.Orders
		resp.Totals.Spend += m.Spend
		resp.Totals.Sales += m.Sales
	}
	resp.Totals.Spend = roundCents(resp.Totals.Spend)
	resp.Totals.Sales = roundCents(resp.Totals.Sales)
	resp.Rows = len(metrics)

	u.logger.Info("simulation run stored",
		slog.Int64("campaign_id", id),
		slog.String("run_id", resp.RunID),
		slog.Int("targets", resp.Targets),
		slog.Int64("impressions", resp.Totals.Impressions),
		slog.Int64("clicks", resp.Totals.Clicks))
	return resp, nil
}

// campaignTargets lists the targets of every ad group. Auto ad groups
// contribute one target per enabled option.
func campaignTargets(cfg domain.CampaignConfig) []target {
	var targets []target
	for _, ag := range cfg.AdGroups {
		switch t := ag.Targeting.(type) {
		case domain.ManualTargeting:
			for _, kw := range t.Keywords {
				targets = append(targets, target{adGroup: ag.AdGroupName, name: kw.Text, matchType: kw.MatchType, bid: ag.DefaultBid})
			}
		case domain.AutoTargeting:
			for _, opt := range t.EnabledOptions() {
				targets = append(targets, target{adGroup: ag.AdGroupName, name: opt, bid: ag.DefaultBid})
			}
		}
	}
	return targets
}

// generate draws a week of traffic for t. Impressions scale with the bid
// relative to a one unit baseline; the CTR is drawn between 0.1% and 3% and
// every click converts with the configured rate. Bids are clamped to
// [0, maxDefaultBid] so campaigns stored before the ceiling existed stay
// bounded. Callers hold rngMu.
func (u *CampaignUseCase) generate(t target) weekly {
	bid := t.bid
	if !(bid > 0) {
		bid = 0
	}
	bid = min(bid, maxDefaultBid)

	base := 50 + u.rng.IntN(451)
	jitter := 0.8 + u.rng.Float64()*0.4
	impressions := int64(float64(base) * bid * jitter)

	ctr := 0.1 + u.rng.Float64()*2.9
	clicks := int64(float64(impressions) * ctr / 100)
	orders := u.conversions(clicks)

	return weekly{
		impressions: impressions,
		clicks:      clicks,
		orders:      orders,
		spend:       roundCents(float64(clicks) * bid),
		sales:       roundCents(float64(orders) * u.sim.AvgSellingPrice),
	}
}

// exactConversionClicks is the largest click count converted one click at a
// time. Above it the binomial draw uses its normal approximation.
const exactConversionClicks = 1_000

// conversions draws how many of clicks convert at the configured rate.
func (u *CampaignUseCase) conversions(clicks int64) int64 {
	p := u.sim.ConversionRate
	if clicks <= exactConversionClicks {
		var orders int64
		for range clicks {
			if u.rng.Float64() < p {
				orders++
			}
		}
		return orders
	}

	n := float64(clicks)
	orders := int64(math.Round(n*p + u.rng.NormFloat64()*math.Sqrt(n*p*(1-p))))
	return min(max(orders, 0), clicks)
}

// splitWeek spreads w evenly over seven daily rows. Money is split in whole
// cents; integer remainders land on the last day so the rows sum to w.
func splitWeek(runID string, campaignID int64, start time.Time, t target, w weekly) []domain.PerformanceMetric {
	spendCents := int64(math.Round(w.spend * 100))
	salesCents := int64(math.Round(w.sales * 100))

	rows := make([]domain.PerformanceMetric, simulatedDays)
	for i := range rows {
		m := domain.PerformanceMetric{
			RunID:       runID,
			CampaignID:  campaignID,
			MetricDate:  start.AddDate(0, 0, i),
			AdGroup:     t.adGroup,
			Target:      t.name,
			MatchType:   t.matchType,
			Impressions: w.impressions / simulatedDays,
			Clicks:      w.clicks / simulatedDays,
			Orders:      w.orders / simulatedDays,
		}
		spend, sales := spendCents/simulatedDays, salesCents/simulatedDays
		if i == simulatedDays-1 {
			m.Impressions += w.impressions % simulatedDays
			m.Clicks += w.clicks % simulatedDays
			m.Orders += w.orders % simulatedDays
			spend += spendCents % simulatedDays
			sales += salesCents % simulatedDays
		}
		m.Spend = float64(spend) / 100
		m.Sales = float64(sales) / 100
		rows[i] = m
	}
	return rows
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
