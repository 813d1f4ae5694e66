package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
	"unicode/utf8"

	"ppc-sim/internal/core/domain"
	"ppc-sim/internal/core/feedback"
	"ppc-sim/internal/core/port"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	maxNameLength    = 255

	// Ceilings keep stored money inside NUMERIC(12, 2) even after a week
	// of simulated spend.
	maxDailyBudget = 1_000_000
	maxDefaultBid  = 1_000
)

// SimulationParams tune the traffic generated by SimulateWeek.
type SimulationParams struct {
	// AvgSellingPrice is the revenue of one order in currency units.
	AvgSellingPrice float64
	// ConversionRate is the probability that a click turns into an order.
	ConversionRate float64
	// Seed makes simulations reproducible. Zero seeds from the clock.
	Seed uint64
}

// DefaultSimulationParams are used when NewCampaignUseCase gets none.
var DefaultSimulationParams = SimulationParams{AvgSellingPrice: 25, ConversionRate: 0.10}

// CampaignUseCase provides business logic for campaign management, feedback
// and performance simulation. It orchestrates the feedback engine and the
// repository to implement the port.CampaignUseCase interface.
type CampaignUseCase struct {
	repo      port.CampaignRepository
	evaluator *feedback.Evaluator
	logger    *slog.Logger
	sim       SimulationParams

	// rng drives the simulation. It is not safe for concurrent use, hence
	// rngMu.
	rngMu sync.Mutex
	rng   *rand.Rand

	now func() time.Time
}

// NewCampaignUseCase creates a new usecase with the provided repository.
func NewCampaignUseCase(repo port.CampaignRepository, logger *slog.Logger, sim SimulationParams) *CampaignUseCase {
	if sim.AvgSellingPrice <= 0 {
		sim.AvgSellingPrice = DefaultSimulationParams.AvgSellingPrice
	}
	if sim.ConversionRate <= 0 || sim.ConversionRate > 1 {
		sim.ConversionRate = DefaultSimulationParams.ConversionRate
	}
	seed := sim.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	evaluator := feedback.NewEvaluator()
	logger.Debug("feedback rules loaded", slog.Any("rules", evaluator.RuleNames()))

	return &CampaignUseCase{
		repo:      repo,
		evaluator: evaluator,
		logger:    logger,
		sim:       sim,
		rng:       rand.New(rand.NewPCG(seed, seed>>1|1)),
		now:       time.Now,
	}
}

// Evaluate scores cfg without storing anything.
func (u *CampaignUseCase) Evaluate(_ context.Context, cfg domain.CampaignConfig) (domain.FeedbackResult, error) {
	return u.evaluator.Evaluate(cfg)
}

// CreateCampaign validates, evaluates and stores a new campaign.
func (u *CampaignUseCase) CreateCampaign(ctx context.Context, cfg domain.CampaignConfig) (*domain.Campaign, error) {
	if err := validateCampaign(cfg); err != nil {
		return nil, err
	}
	fb, err := u.evaluator.Evaluate(cfg)
	if err != nil {
		return nil, err
	}

	c := &domain.Campaign{
		Name:        cfg.CampaignName,
		Type:        cfg.CampaignType,
		DailyBudget: cfg.DailyBudget,
		Status:      domain.StatusEnabled,
		Config:      cfg,
		Feedback:    fb,
	}
	if err = u.repo.CreateCampaign(ctx, c); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	u.logger.Info("campaign created",
		slog.Int64("campaign_id", c.ID),
		slog.String("type", string(c.Type)),
		slog.Int("score", fb.Score))
	return c, nil
}

// UpdateCampaign replaces the configuration of a stored campaign and
// re-evaluates it. The status is kept.
func (u *CampaignUseCase) UpdateCampaign(ctx context.Context, id int64, cfg domain.CampaignConfig) (*domain.Campaign, error) {
	if err := validateCampaign(cfg); err != nil {
		return nil, err
	}
	fb, err := u.evaluator.Evaluate(cfg)
	if err != nil {
		return nil, err
	}

	c, err := u.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = cfg.CampaignName
	c.Type = cfg.CampaignType
	c.DailyBudget = cfg.DailyBudget
	c.Config = cfg
	c.Feedback = fb
	if err = u.repo.UpdateCampaign(ctx, c); err != nil {
		return nil, fmt.Errorf("update campaign %d: %w", id, err)
	}
	u.logger.Info("campaign updated", slog.Int64("campaign_id", id), slog.Int("score", fb.Score))
	return c, nil
}

// SetStatus changes the lifecycle status of a campaign.
func (u *CampaignUseCase) SetStatus(ctx context.Context, id int64, status domain.CampaignStatus) (*domain.Campaign, error) {
	c, err := u.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == status {
		return c, nil
	}
	c.Status = status
	if err = u.repo.UpdateCampaign(ctx, c); err != nil {
		return nil, fmt.Errorf("update campaign %d status: %w", id, err)
	}
	u.logger.Info("campaign status changed", slog.Int64("campaign_id", id), slog.String("status", string(status)))
	return c, nil
}

// GetCampaign returns a stored campaign.
func (u *CampaignUseCase) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	return u.repo.GetCampaign(ctx, id)
}

// ListCampaigns returns stored campaigns newest first. The limit defaults to
// 50 and is capped at 200.
func (u *CampaignUseCase) ListCampaigns(ctx context.Context, filter port.CampaignFilter) ([]domain.Campaign, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return u.repo.ListCampaigns(ctx, filter)
}

// DeleteCampaign removes a campaign and its metrics.
func (u *CampaignUseCase) DeleteCampaign(ctx context.Context, id int64) error {
	if err := u.repo.DeleteCampaign(ctx, id); err != nil {
		return err
	}
	u.logger.Info("campaign deleted", slog.Int64("campaign_id", id))
	return nil
}

// GetStats returns aggregated performance and its ratios for a period.
func (u *CampaignUseCase) GetStats(ctx context.Context, req port.StatsReq) (*port.StatsResp, error) {
	totals, err := u.repo.GetStats(ctx, req)
	if err != nil {
		return nil, err
	}
	return &port.StatsResp{
		From:       req.From.Format(time.DateOnly),
		To:         req.To.Format(time.DateOnly),
		CampaignID: req.CampaignID,
		Totals:     *totals,
		Ratios:     totals.Ratios(),
	}, nil
}

// validateCampaign applies the rules a campaign must satisfy before it is
// stored. They are stricter than what evaluation needs: a stored campaign
// must have a name, a positive budget and named keywords.
func validateCampaign(cfg domain.CampaignConfig) error {
	switch n := utf8.RuneCountInString(cfg.CampaignName); {
	case n == 0:
		return &domain.InvalidConfigError{Field: "campaignName", Reason: "is required"}
	case n > maxNameLength:
		return &domain.InvalidConfigError{Field: "campaignName", Reason: fmt.Sprintf("must be at most %d characters", maxNameLength)}
	}
	if !(cfg.DailyBudget > 0) {
		return &domain.InvalidConfigError{Field: "dailyBudget", Reason: "must be greater than 0"}
	}
	if cfg.DailyBudget > maxDailyBudget {
		return &domain.InvalidConfigError{Field: "dailyBudget", Reason: fmt.Sprintf("must be at most %d", maxDailyBudget)}
	}
	if len(cfg.AdGroups) == 0 {
		return &domain.InvalidConfigError{Field: "adGroups", Reason: "at least one ad group is required"}
	}
	for i, ag := range cfg.AdGroups {
		switch n := utf8.RuneCountInString(ag.AdGroupName); {
		case n == 0:
			return &domain.InvalidConfigError{Field: fmt.Sprintf("adGroups[%d].adGroupName", i), Reason: "is required"}
		case n > maxNameLength:
			return &domain.InvalidConfigError{Field: fmt.Sprintf("adGroups[%d].adGroupName", i), Reason: fmt.Sprintf("must be at most %d characters", maxNameLength)}
		}
		switch {
		case ag.DefaultBid < 0:
			return &domain.InvalidConfigError{Field: fmt.Sprintf("adGroups[%d].defaultBid", i), Reason: "must not be negative"}
		case !(ag.DefaultBid <= maxDefaultBid):
			return &domain.InvalidConfigError{Field: fmt.Sprintf("adGroups[%d].defaultBid", i), Reason: fmt.Sprintf("must be at most %d", maxDefaultBid)}
		}
		switch t := ag.Targeting.(type) {
		case domain.AutoTargeting:
			if cfg.CampaignType != domain.CampaignAuto {
				return &domain.InvalidConfigError{Field: fmt.Sprintf("adGroups[%d].targeting", i), Reason: "auto targeting in a manual campaign"}
			}
		case domain.ManualTargeting:
			if cfg.CampaignType != domain.CampaignManual {
				return &domain.InvalidConfigError{Field: fmt.Sprintf("adGroups[%d].targeting", i), Reason: "keyword targeting in an auto campaign"}
			}
			for j, kw := range t.Keywords {
				if kw.Text == "" || utf8.RuneCountInString(kw.Text) > maxNameLength {
					return &domain.InvalidConfigError{
						Field:  fmt.Sprintf("adGroups[%d].targeting.manualKeywords[%d].text", i, j),
						Reason: fmt.Sprintf("must be 1 to %d characters", maxNameLength),
					}
				}
			}
		default:
			return &domain.InvalidConfigError{Field: fmt.Sprintf("adGroups[%d].targeting", i), Reason: "is required"}
		}
	}
	return nil
}
