package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ppc-sim/internal/core/domain"
	"ppc-sim/internal/core/port"
)

const campaignColumns = `id, name, campaign_type, daily_budget, status, config, feedback, created_at, updated_at`

// CampaignRepository implements port.CampaignRepository using pgxpool for
// PostgreSQL. Configurations and feedback are stored as JSONB.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// CreateCampaign inserts c and fills in its ID and timestamps.
func (r *CampaignRepository) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	cfg, fb, err := encodeCampaign(c)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
        INSERT INTO campaigns (name, campaign_type, daily_budget, status, config, feedback)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`,
		c.Name, c.Type, c.DailyBudget, c.Status, cfg, fb,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// UpdateCampaign overwrites the mutable columns of c.
func (r *CampaignRepository) UpdateCampaign(ctx context.Context, c *domain.Campaign) error {
	cfg, fb, err := encodeCampaign(c)
	if err != nil {
		return err
	}
	err = r.pool.QueryRow(ctx, `
        UPDATE campaigns
        SET name = $2, campaign_type = $3, daily_budget = $4, status = $5, config = $6, feedback = $7, updated_at = now()
        WHERE id = $1
        RETURNING updated_at`,
		c.ID, c.Name, c.Type, c.DailyBudget, c.Status, cfg, fb,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCampaignNotFound
	}
	return err
}

// GetCampaign returns a campaign by id.
func (r *CampaignRepository) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanCampaign)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCampaigns returns campaigns newest first.
func (r *CampaignRepository) ListCampaigns(ctx context.Context, filter port.CampaignFilter) ([]domain.Campaign, error) {
	var (
		where strings.Builder
		args  []any
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		fmt.Fprintf(&where, "WHERE status = $%d", len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM campaigns %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		campaignColumns, where.String(), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanCampaign)
}

// DeleteCampaign removes a campaign. Its metrics are removed by the
// foreign key cascade.
func (r *CampaignRepository) DeleteCampaign(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

// InsertMetrics copies the rows of one simulation run inside a single
// transaction.
func (r *CampaignRepository) InsertMetrics(ctx context.Context, metrics []domain.PerformanceMetric) (err error) {
	if len(metrics) == 0 {
		return nil
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"performance_metrics"},
		[]string{"run_id", "campaign_id", "metric_date", "ad_group", "target", "match_type",
			"impressions", "clicks", "spend", "orders", "sales"},
		pgx.CopyFromSlice(len(metrics), func(i int) ([]any, error) {
			m := metrics[i]
			runID, err := uuid.Parse(m.RunID)
			if err != nil {
				return nil, fmt.Errorf("run id %q: %w", m.RunID, err)
			}
			return []any{runID, m.CampaignID, m.MetricDate, m.AdGroup, m.Target, string(m.MatchType),
				m.Impressions, m.Clicks, m.Spend, m.Orders, m.Sales}, nil
		}),
	)
	return err
}

// GetStats returns performance totals in a period.
func (r *CampaignRepository) GetStats(ctx context.Context, req port.StatsReq) (*domain.PerformanceTotals, error) {
	args := []any{req.From, req.To}
	whereCampaign := ""
	if req.CampaignID != nil {
		whereCampaign = "AND campaign_id = $3"
		args = append(args, *req.CampaignID)
	}
	query := fmt.Sprintf(`
        SELECT COALESCE(sum(impressions), 0), COALESCE(sum(clicks), 0), COALESCE(sum(spend), 0)::float8,
               COALESCE(sum(orders), 0), COALESCE(sum(sales), 0)::float8
        FROM performance_metrics
        WHERE metric_date >= $1::date AND metric_date <= $2::date %s`, whereCampaign)

	var t domain.PerformanceTotals
	err := r.pool.QueryRow(ctx, query, args...).Scan(&t.Impressions, &t.Clicks, &t.Spend, &t.Orders, &t.Sales)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanCampaign(row pgx.CollectableRow) (domain.Campaign, error) {
	var (
		c       domain.Campaign
		cfgRaw  []byte
		fbRaw   []byte
		typeRaw string
		status  string
	)
	err := row.Scan(&c.ID, &c.Name, &typeRaw, &c.DailyBudget, &status, &cfgRaw, &fbRaw, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	c.Type = domain.CampaignType(typeRaw)
	c.Status = domain.CampaignStatus(status)
	if err = json.Unmarshal(cfgRaw, &c.Config); err != nil {
		return c, fmt.Errorf("decode config of campaign %d: %w", c.ID, err)
	}
	if err = json.Unmarshal(fbRaw, &c.Feedback); err != nil {
		return c, fmt.Errorf("decode feedback of campaign %d: %w", c.ID, err)
	}
	return c, nil
}

func encodeCampaign(c *domain.Campaign) (cfg, fb []byte, err error) {
	if cfg, err = json.Marshal(c.Config); err != nil {
		return nil, nil, fmt.Errorf("encode config: %w", err)
	}
	if fb, err = json.Marshal(c.Feedback); err != nil {
		return nil, nil, fmt.Errorf("encode feedback: %w", err)
	}
	return cfg, fb, nil
}
