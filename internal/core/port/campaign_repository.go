package port

import (
	"context"
	"time"

	"ppc-sim/internal/core/domain"
)

// CampaignRepository defines the persistence layer for campaigns and their
// simulated performance. It is an outbound port in hexagonal architecture.
// Implementations must be concurrency-safe. Lookups of unknown campaigns
// return domain.ErrCampaignNotFound.
type CampaignRepository interface {
	// CreateCampaign stores a new campaign and fills in its ID and
	// timestamps.
	CreateCampaign(ctx context.Context, c *domain.Campaign) error
	// UpdateCampaign replaces the configuration, feedback and status of an
	// existing campaign and refreshes UpdatedAt.
	UpdateCampaign(ctx context.Context, c *domain.Campaign) error
	// GetCampaign returns a campaign by id.
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	// ListCampaigns returns campaigns newest first.
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]domain.Campaign, error)
	// DeleteCampaign removes a campaign together with its metrics.
	DeleteCampaign(ctx context.Context, id int64) error

	// InsertMetrics stores the metrics of one simulation run atomically.
	InsertMetrics(ctx context.Context, metrics []domain.PerformanceMetric) error
	// GetStats returns performance totals in a period.
	GetStats(ctx context.Context, req StatsReq) (*domain.PerformanceTotals, error)
}

// CampaignFilter narrows ListCampaigns. A nil Status lists every status.
type CampaignFilter struct {
	Status *domain.CampaignStatus
	Limit  int
	Offset int
}

// StatsReq selects the metrics aggregated by GetStats. Dates are inclusive
// and compared on the day only.
type StatsReq struct {
	From       time.Time
	To         time.Time
	CampaignID *int64
}
