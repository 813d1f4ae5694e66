package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ppc-sim/internal/core/domain"
	"ppc-sim/internal/core/port/mocks"
)

func TestSimulateWeekManualCampaign(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	stored := &domain.Campaign{ID: 11, Status: domain.StatusEnabled, Config: validConfig()}

	var rows []domain.PerformanceMetric
	repo.EXPECT().GetCampaign(mock.Anything, int64(11)).Return(stored, nil)
	repo.EXPECT().
		InsertMetrics(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, metrics []domain.PerformanceMetric) {
			rows = metrics
		}).
		Return(nil)

	svc := newTestUseCase(repo)
	start := time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC)

	resp, err := svc.SimulateWeek(context.Background(), 11, start)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, "2024-03-04", resp.StartDate)
	assert.Equal(t, 3, resp.Targets)
	assert.Equal(t, 21, resp.Rows)
	require.Len(t, rows, 21)

	var totals domain.PerformanceTotals
	perTarget := map[string]int{}
	for i, m := range rows {
		assert.Equal(t, resp.RunID, m.RunID)
		assert.Equal(t, int64(11), m.CampaignID)
		assert.Equal(t, "Earbuds Exact", m.AdGroup)
		assert.Equal(t, start.Truncate(24*time.Hour).AddDate(0, 0, i%simulatedDays), m.MetricDate)
		assert.GreaterOrEqual(t, m.Spend, 0.0)
		assert.LessOrEqual(t, m.Clicks, m.Impressions)
		perTarget[m.Target]++

		totals.Impressions += m.Impressions
		totals.Clicks += m.Clicks
		totals.Orders += m.Orders
		totals.Spend += m.Spend
		totals.Sales += m.Sales
	}
	assert.Equal(t, map[string]int{"wireless earbuds": 7, "bluetooth earbuds": 7, "earbuds": 7}, perTarget)
	assert.Equal(t, totals.Impressions, resp.Totals.Impressions)
	assert.Equal(t, totals.Clicks, resp.Totals.Clicks)
	assert.LessOrEqual(t, resp.Totals.Orders, resp.Totals.Clicks)
	assert.InDelta(t, totals.Spend, resp.Totals.Spend, 0.005)
	assert.InDelta(t, float64(resp.Totals.Clicks)*1.2, resp.Totals.Spend, 0.02)
	assert.InDelta(t, float64(resp.Totals.Orders)*20, resp.Totals.Sales, 0.02)
}

func TestSimulateWeekAutoCampaign(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	cfg := domain.CampaignConfig{
		CampaignName: "Yoga Mats Auto",
		CampaignType: domain.CampaignAuto,
		DailyBudget:  15,
		AdGroups: []domain.AdGroupConfig{{
			AdGroupName: "Mats",
			DefaultBid:  0.8,
			Targeting:   domain.AutoTargeting{CloseMatch: true, Complements: true},
		}},
	}

	repo.EXPECT().GetCampaign(mock.Anything, int64(2)).Return(&domain.Campaign{ID: 2, Status: domain.StatusEnabled, Config: cfg}, nil)
	repo.EXPECT().
		InsertMetrics(mock.Anything, mock.MatchedBy(func(metrics []domain.PerformanceMetric) bool {
			return len(metrics) == 14 && metrics[0].Target == "close-match" && metrics[7].Target == "complements" &&
				metrics[0].MatchType == ""
		})).
		Return(nil)

	svc := newTestUseCase(repo)
	resp, err := svc.SimulateWeek(context.Background(), 2, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Targets)
}

func TestSimulateWeekWithoutTargets(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	cfg := validConfig()
	cfg.AdGroups[0].Targeting = domain.ManualTargeting{}
	repo.EXPECT().GetCampaign(mock.Anything, int64(4)).Return(&domain.Campaign{ID: 4, Status: domain.StatusEnabled, Config: cfg}, nil)

	svc := newTestUseCase(repo)
	svc.now = func() time.Time { return time.Date(2024, 5, 6, 23, 59, 0, 0, time.UTC) }

	resp, err := svc.SimulateWeek(context.Background(), 4, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Rows)
	assert.Equal(t, "2024-05-06", resp.StartDate)
}

func TestSimulateWeekRequiresEnabledCampaign(t *testing.T) {
	for _, status := range []domain.CampaignStatus{domain.StatusPaused, domain.StatusArchived} {
		repo := mocks.NewMockCampaignRepository(t)
		repo.EXPECT().GetCampaign(mock.Anything, int64(8)).Return(&domain.Campaign{ID: 8, Status: status, Config: validConfig()}, nil)

		svc := newTestUseCase(repo)
		_, err := svc.SimulateWeek(context.Background(), 8, time.Now())
		assert.ErrorIs(t, err, domain.ErrCampaignInactive, string(status))
	}
}

func TestSimulateWeekStoreFailure(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	boom := errors.New("tx aborted")
	repo.EXPECT().GetCampaign(mock.Anything, int64(1)).Return(&domain.Campaign{ID: 1, Status: domain.StatusEnabled, Config: validConfig()}, nil)
	repo.EXPECT().InsertMetrics(mock.Anything, mock.Anything).Return(boom)

	svc := newTestUseCase(repo)
	_, err := svc.SimulateWeek(context.Background(), 1, time.Now())
	assert.ErrorIs(t, err, boom)
}

func TestSplitWeekKeepsTotals(t *testing.T) {
	w := weekly{impressions: 1003, clicks: 22, orders: 3, spend: 0.04, sales: 61.5}
	rows := splitWeek("run", 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), target{name: "kw"}, w)
	require.Len(t, rows, simulatedDays)

	var got weekly
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.Spend, 0.0)
		assert.GreaterOrEqual(t, r.Sales, 0.0)
		got.impressions += r.Impressions
		got.clicks += r.Clicks
		got.orders += r.Orders
		got.spend += r.Spend
		got.sales += r.Sales
	}
	assert.Equal(t, w.impressions, got.impressions)
	assert.Equal(t, w.clicks, got.clicks)
	assert.Equal(t, w.orders, got.orders)
	assert.InDelta(t, w.spend, got.spend, 1e-9)
	assert.InDelta(t, w.sales, got.sales, 1e-9)
	assert.Equal(t, int64(143+2), rows[simulatedDays-1].Impressions)
}

func TestGenerateIsReproducibleWithSeed(t *testing.T) {
	a := newTestUseCase(nil)
	b := newTestUseCase(nil)
	tgt := target{name: "kw", bid: 1.5}

	for range 5 {
		assert.Equal(t, a.generate(tgt), b.generate(tgt))
	}

	w := a.generate(target{name: "free", bid: 0})
	assert.Zero(t, w.impressions)
	assert.Zero(t, w.spend)
	assert.False(t, math.IsNaN(w.sales))
}

func TestSimulateWeekBoundsOversizedBids(t *testing.T) {
	for _, bid := range []float64{1e8, 1e300, math.Inf(1)} {
		repo := mocks.NewMockCampaignRepository(t)
		cfg := validConfig()
		cfg.AdGroups[0].DefaultBid = bid

		var rows []domain.PerformanceMetric
		repo.EXPECT().GetCampaign(mock.Anything, int64(5)).Return(&domain.Campaign{ID: 5, Status: domain.StatusEnabled, Config: cfg}, nil)
		repo.EXPECT().
			InsertMetrics(mock.Anything, mock.Anything).
			Run(func(ctx context.Context, metrics []domain.PerformanceMetric) {
				rows = metrics
			}).
			Return(nil)

		svc := newTestUseCase(repo)
		resp, err := svc.SimulateWeek(context.Background(), 5, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, rows, 21)

		assert.Positive(t, resp.Totals.Impressions, "bid %g", bid)
		assert.LessOrEqual(t, resp.Totals.Orders, resp.Totals.Clicks)
		for _, m := range rows {
			assert.Less(t, m.Spend, 1e10, "bid %g", bid)
			assert.Less(t, m.Sales, 1e10, "bid %g", bid)
		}
	}
}

func TestConversionsStayWithinClicks(t *testing.T) {
	svc := newTestUseCase(nil)

	for _, clicks := range []int64{0, 1, exactConversionClicks, exactConversionClicks + 1, 1_000_000} {
		orders := svc.conversions(clicks)
		assert.GreaterOrEqual(t, orders, int64(0))
		assert.LessOrEqual(t, orders, clicks)
	}

	orders := svc.conversions(1_000_000)
	assert.InDelta(t, 100_000, float64(orders), 2_000)
}
