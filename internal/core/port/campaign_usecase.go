package port

import (
	"context"
	"time"

	"ppc-sim/internal/core/domain"
)

// CampaignUseCase defines the business operations of the simulator. This
// interface represents the primary port into the application domain. Mock
// implementations are generated from this interface for testing.
type CampaignUseCase interface {
	// Evaluate scores a campaign configuration without storing anything.
	// Invalid configurations yield an error matching domain.ErrInvalidConfig.
	Evaluate(ctx context.Context, cfg domain.CampaignConfig) (domain.FeedbackResult, error)

	// CreateCampaign evaluates and stores a new campaign.
	CreateCampaign(ctx context.Context, cfg domain.CampaignConfig) (*domain.Campaign, error)

	// UpdateCampaign replaces the configuration of a campaign and
	// re-evaluates it.
	UpdateCampaign(ctx context.Context, id int64, cfg domain.CampaignConfig) (*domain.Campaign, error)

	// SetStatus changes the lifecycle status of a campaign.
	SetStatus(ctx context.Context, id int64, status domain.CampaignStatus) (*domain.Campaign, error)

	// GetCampaign returns a stored campaign.
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)

	// ListCampaigns returns stored campaigns newest first.
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]domain.Campaign, error)

	// DeleteCampaign removes a campaign and its metrics.
	DeleteCampaign(ctx context.Context, id int64) error

	// SimulateWeek generates seven days of performance metrics starting at
	// start for an enabled campaign. Paused and archived campaigns yield
	// domain.ErrCampaignInactive.
	SimulateWeek(ctx context.Context, id int64, start time.Time) (*SimulationResp, error)

	// GetStats returns aggregated performance and the derived ratios for the
	// specified campaign (optional) and period.
	GetStats(ctx context.Context, req StatsReq) (*StatsResp, error)
}

// SimulationResp summarises one simulation run. It is a DTO used by the
// HTTP layer and does not contain domain behaviour.
type SimulationResp struct {
	RunID      string                   `json:"runId"`
	CampaignID int64                    `json:"campaignId"`
	StartDate  string                   `json:"startDate"`
	Targets    int                      `json:"targets"`
	Rows       int                      `json:"rows"`
	Totals     domain.PerformanceTotals `json:"totals"`
}

// StatsResp contains aggregated performance for a period together with the
// ratios derived from it.
type StatsResp struct {
	From       string                   `json:"from"`
	To         string                   `json:"to"`
	CampaignID *int64                   `json:"campaignId,omitempty"`
	Totals     domain.PerformanceTotals `json:"totals"`
	Ratios     domain.PerformanceRatios `json:"ratios"`
}
