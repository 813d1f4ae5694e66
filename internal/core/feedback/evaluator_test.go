package feedback

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"ppc-sim/internal/core/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func keywords(types ...domain.MatchType) []domain.Keyword {
	kws := make([]domain.Keyword, 0, len(types))
	for i, mt := range types {
		kws = append(kws, domain.Keyword{Text: "keyword " + string(rune('a'+i%26)), MatchType: mt})
	}
	return kws
}

func manualConfig(budget, bid float64, kws []domain.Keyword) domain.CampaignConfig {
	return domain.CampaignConfig{
		CampaignName: "Summer Sale 2024",
		CampaignType: domain.CampaignManual,
		DailyBudget:  budget,
		AdGroups: []domain.AdGroupConfig{{
			AdGroupName: "Electronics Ad Group",
			DefaultBid:  bid,
			Targeting:   domain.ManualTargeting{Keywords: kws},
		}},
	}
}

func autoConfig(t domain.AutoTargeting) domain.CampaignConfig {
	return domain.CampaignConfig{
		CampaignName: "Summer Sale 2024",
		CampaignType: domain.CampaignAuto,
		DailyBudget:  50,
		AdGroups: []domain.AdGroupConfig{{
			AdGroupName: "Electronics Ad Group",
			DefaultBid:  1.5,
			Targeting:   t,
		}},
	}
}

// TestWellConfiguredManualCampaign checks a campaign without mistakes.
func TestWellConfiguredManualCampaign(t *testing.T) {
	cfg := manualConfig(50, 1.5, keywords(domain.MatchBroad, domain.MatchPhrase, domain.MatchExact))

	got, err := Evaluate(cfg)
	require.NoError(t, err)

	want := domain.FeedbackResult{
		Score: 100,
		Strengths: []string{
			"A daily budget of $50 is a solid start for gathering performance data.",
			"Your campaign name is descriptive and easy to identify. Great for organization!",
			"A set of 3 keywords is a good starting point for a targeted ad group.",
			"Great job using multiple match types! This gives you a good mix of control and reach.",
			"Your default bid of $1.5 is a reasonable starting point.",
		},
		Weaknesses: []string{},
		ProTips:    []string{ClosingTip},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("feedback mismatch (-want +got):\n%s", diff)
	}
}

// TestPoorlyConfiguredManualCampaign checks that every weakness subtracts
// its delta and brings its tip.
func TestPoorlyConfiguredManualCampaign(t *testing.T) {
	cfg := domain.CampaignConfig{
		CampaignName: "test123",
		CampaignType: domain.CampaignManual,
		DailyBudget:  5,
		AdGroups: []domain.AdGroupConfig{{
			AdGroupName: "ag",
			DefaultBid:  0.2,
			Targeting:   domain.ManualTargeting{},
		}},
	}

	got, err := Evaluate(cfg)
	require.NoError(t, err)

	want := domain.FeedbackResult{
		Score:     45,
		Strengths: []string{},
		Weaknesses: []string{
			"A budget of $5 is quite low. It may not be enough to get consistent traffic.",
			"Your campaign name is generic. Descriptive names help with organization.",
			"Your ad group name is generic. Specific names help you know what's inside at a glance.",
			"You only have 0 keyword(s). This severely limits your reach.",
			"Your default bid of $0.2 is very low and might not win many auctions.",
		},
		ProTips: []string{
			"Consider increasing your daily budget to at least $10-$20 to ensure your ads are shown more frequently.",
			"Aim for at least 3-20 relevant keywords in an ad group to start.",
			ClosingTip,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("feedback mismatch (-want +got):\n%s", diff)
	}
}

// TestAutoCampaignSingleOption checks the auto path with one enabled option.
func TestAutoCampaignSingleOption(t *testing.T) {
	got, err := Evaluate(autoConfig(domain.AutoTargeting{CloseMatch: true}))
	require.NoError(t, err)

	assert.Equal(t, 90, got.Score)
	assert.Equal(t, []string{
		"You've only enabled one automatic targeting option. This can limit Amazon's ability to explore.",
	}, got.Weaknesses)
	assert.Equal(t, []string{
		"Auto campaigns are great for harvesting new, high-performing keywords. Check your search term report regularly!",
		ClosingTip,
	}, got.ProTips)
}

func TestAutoCampaignHarvestTipAlwaysPresent(t *testing.T) {
	const harvest = "Auto campaigns are great for harvesting new, high-performing keywords. Check your search term report regularly!"

	tests := []struct {
		name      string
		targeting domain.AutoTargeting
		score     int
	}{
		{name: "none enabled", targeting: domain.AutoTargeting{}, score: 90},
		{name: "one enabled", targeting: domain.AutoTargeting{Complements: true}, score: 90},
		{name: "two enabled", targeting: domain.AutoTargeting{CloseMatch: true, Substitutes: true}, score: 100},
		{name: "all enabled", targeting: domain.AutoTargeting{CloseMatch: true, LooseMatch: true, Substitutes: true, Complements: true}, score: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(autoConfig(tt.targeting))
			require.NoError(t, err)
			assert.Equal(t, tt.score, got.Score)
			assert.Contains(t, got.ProTips, harvest)
			assert.Equal(t, ClosingTip, got.ProTips[len(got.ProTips)-1])
		})
	}
}

func TestKeywordCountBoundaries(t *testing.T) {
	mixed := func(n int) []domain.Keyword {
		types := make([]domain.MatchType, n)
		for i := range types {
			types[i] = []domain.MatchType{domain.MatchBroad, domain.MatchPhrase, domain.MatchExact}[i%3]
		}
		return keywords(types...)
	}

	tests := []struct {
		name  string
		count int
		score int
		tips  int
	}{
		{name: "below minimum", count: 2, score: 80, tips: 2},
		{name: "at minimum", count: MinKeywords, score: 100, tips: 1},
		{name: "at maximum", count: MaxKeywords, score: 100, tips: 1},
		{name: "above maximum", count: MaxKeywords + 1, score: 90, tips: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(manualConfig(50, 1.5, mixed(tt.count)))
			require.NoError(t, err)
			assert.Equal(t, tt.score, got.Score)
			assert.Len(t, got.ProTips, tt.tips)
		})
	}
}

func TestMatchTypeDiversity(t *testing.T) {
	t.Run("single type across several keywords", func(t *testing.T) {
		got, err := Evaluate(manualConfig(50, 1.5, keywords(domain.MatchExact, domain.MatchExact, domain.MatchExact)))
		require.NoError(t, err)
		assert.Equal(t, 90, got.Score)
		assert.Equal(t, []string{"You're only using one match type ('exact'). This can be inflexible."}, got.Weaknesses)
		assert.Equal(t, []string{
			"Try using a mix of 'phrase' and 'exact' match keywords to balance reach and precision.",
			ClosingTip,
		}, got.ProTips)
	})

	t.Run("single keyword gets no diversity observation", func(t *testing.T) {
		got, err := Evaluate(manualConfig(50, 1.5, keywords(domain.MatchPhrase)))
		require.NoError(t, err)
		assert.Equal(t, 80, got.Score)
		assert.Equal(t, []string{"You only have 1 keyword(s). This severely limits your reach."}, got.Weaknesses)
		for _, s := range got.Strengths {
			assert.NotContains(t, s, "match types")
		}
	})

	t.Run("two keywords of one type hit both weaknesses", func(t *testing.T) {
		got, err := Evaluate(manualConfig(50, 1.5, keywords(domain.MatchBroad, domain.MatchBroad)))
		require.NoError(t, err)
		assert.Equal(t, 70, got.Score)
		assert.Len(t, got.Weaknesses, 2)
		assert.Len(t, got.ProTips, 3)
	})
}

func TestBidBoundaries(t *testing.T) {
	kws := keywords(domain.MatchBroad, domain.MatchPhrase, domain.MatchExact)
	tests := []struct {
		bid      float64
		score    int
		strength bool
	}{
		{bid: -1, score: 90},
		{bid: 0.49, score: 90},
		{bid: MinReasonableBid, score: 100, strength: true},
		{bid: MaxReasonableBid, score: 100, strength: true},
		{bid: 5.01, score: 95},
	}
	for _, tt := range tests {
		got, err := Evaluate(manualConfig(50, tt.bid, kws))
		require.NoError(t, err)
		assert.Equal(t, tt.score, got.Score, "bid %v", tt.bid)
		last := got.Strengths[len(got.Strengths)-1]
		assert.Equal(t, tt.strength, last == "Your default bid of "+money(tt.bid)+" is a reasonable starting point.", "bid %v", tt.bid)
	}
}

func TestBudgetBoundaries(t *testing.T) {
	kws := keywords(domain.MatchBroad, domain.MatchPhrase, domain.MatchExact)

	got, err := Evaluate(manualConfig(MinBudget, 1.5, kws))
	require.NoError(t, err)
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, "A daily budget of $10 is a solid start for gathering performance data.", got.Strengths[0])

	got, err = Evaluate(manualConfig(-20, 1.5, kws))
	require.NoError(t, err)
	assert.Equal(t, 85, got.Score)
	assert.Equal(t, "A budget of $-20 is quite low. It may not be enough to get consistent traffic.", got.Weaknesses[0])
}

func TestNaming(t *testing.T) {
	tests := []struct {
		name    string
		generic bool
	}{
		{name: "Summer Sale 2024"},
		{name: "Shoes"},
		{name: "Shoe", generic: true},
		{name: "", generic: true},
		{name: "My TEST campaign", generic: true},
		{name: "Contest Winners", generic: true},
		{name: "Café!"},
		// Length counts runes, not UTF-16 code units.
		{name: "😀😀😀", generic: true},
		{name: "😀😀😀😀😀"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.generic, isGenericName(tt.name), "name %q", tt.name)
	}
}

// TestDescriptiveAdGroupNameIsSilent checks that a descriptive ad group name
// yields no message of any kind.
func TestDescriptiveAdGroupNameIsSilent(t *testing.T) {
	in := Input{AdGroup: domain.AdGroupConfig{AdGroupName: "Wireless Earbuds Exact"}}
	assert.Empty(t, AdGroupNameRule{}.Apply(in))

	got, err := Evaluate(manualConfig(50, 1.5, keywords(domain.MatchBroad, domain.MatchPhrase, domain.MatchExact)))
	require.NoError(t, err)
	for _, msgs := range [][]string{got.Strengths, got.Weaknesses, got.ProTips} {
		for _, m := range msgs {
			assert.NotContains(t, m, "ad group name")
		}
	}
}

func TestOnlyFirstAdGroupIsEvaluated(t *testing.T) {
	cfg := manualConfig(50, 1.5, keywords(domain.MatchBroad, domain.MatchPhrase, domain.MatchExact))
	cfg.AdGroups = append(cfg.AdGroups, domain.AdGroupConfig{AdGroupName: "x", DefaultBid: 99, Targeting: domain.AutoTargeting{}})

	got, err := Evaluate(cfg)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Score)
}

func TestEvaluateRejectsInvalidConfig(t *testing.T) {
	valid := manualConfig(50, 1.5, keywords(domain.MatchExact))

	tests := []struct {
		name   string
		mutate func(c *domain.CampaignConfig)
		field  string
	}{
		{
			name:   "no ad groups",
			mutate: func(c *domain.CampaignConfig) { c.AdGroups = nil },
			field:  "adGroups",
		},
		{
			name:   "missing targeting",
			mutate: func(c *domain.CampaignConfig) { c.AdGroups[0].Targeting = nil },
			field:  "adGroups[0].targeting",
		},
		{
			name:   "manual campaign with auto targeting",
			mutate: func(c *domain.CampaignConfig) { c.AdGroups[0].Targeting = domain.AutoTargeting{CloseMatch: true} },
			field:  "adGroups[0].targeting",
		},
		{
			name: "auto campaign with manual targeting",
			mutate: func(c *domain.CampaignConfig) {
				c.CampaignType = domain.CampaignAuto
			},
			field: "adGroups[0].targeting",
		},
		{
			name:   "unknown campaign type",
			mutate: func(c *domain.CampaignConfig) { c.CampaignType = "hybrid" },
			field:  "campaignType",
		},
		{
			name:   "NaN budget",
			mutate: func(c *domain.CampaignConfig) { c.DailyBudget = math.NaN() },
			field:  "dailyBudget",
		},
		{
			name:   "infinite bid",
			mutate: func(c *domain.CampaignConfig) { c.AdGroups[0].DefaultBid = math.Inf(1) },
			field:  "adGroups[0].defaultBid",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			cfg.AdGroups = append([]domain.AdGroupConfig(nil), valid.AdGroups...)
			tt.mutate(&cfg)

			_, err := Evaluate(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidConfig))

			var invalid *domain.InvalidConfigError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestAssembleClampsScore(t *testing.T) {
	floor := make([]domain.Observation, 0, 10)
	for range 10 {
		floor = append(floor, domain.Observation{Category: domain.CategoryWeakness, Message: "w", ScoreDelta: -20})
	}
	assert.Equal(t, MinScore, assemble(floor).Score)

	ceiling := []domain.Observation{{Category: domain.CategoryStrength, Message: "s", ScoreDelta: 30}}
	assert.Equal(t, MaxScore, assemble(ceiling).Score)
}

func TestAssemblePreservesOrderAndAppendsClosingTip(t *testing.T) {
	got := assemble([]domain.Observation{
		{Category: domain.CategoryProTip, Message: "tip 1"},
		{Category: domain.CategoryStrength, Message: "strength 1"},
		{Category: domain.CategoryProTip, Message: "tip 2"},
		{Category: domain.CategoryWeakness, Message: "weakness 1", ScoreDelta: -5},
		{Category: domain.CategoryStrength, Message: "strength 2"},
	})

	assert.Equal(t, 95, got.Score)
	assert.Equal(t, []string{"strength 1", "strength 2"}, got.Strengths)
	assert.Equal(t, []string{"weakness 1"}, got.Weaknesses)
	assert.Equal(t, []string{"tip 1", "tip 2", ClosingTip}, got.ProTips)
}

func TestCustomRuleOrder(t *testing.T) {
	e := NewEvaluator(BidRule{}, BudgetRule{})
	got, err := e.Evaluate(manualConfig(50, 1.5, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Your default bid of $1.5 is a reasonable starting point.",
		"A daily budget of $50 is a solid start for gathering performance data.",
	}, got.Strengths)
}

func TestRuleNames(t *testing.T) {
	assert.Equal(t, []string{"budget", "campaign-name", "ad-group-name", "targeting", "bid"}, NewEvaluator().RuleNames())
	assert.Equal(t, []string{"bid", "budget"}, NewEvaluator(BidRule{}, BudgetRule{}).RuleNames())
}

// TestScoreInvariants sweeps budgets, bids and keyword counts and checks the
// properties every result must have.
func TestScoreInvariants(t *testing.T) {
	budgets := []float64{-10, 0, 9.99, 10, 1000}
	bids := []float64{-1, 0, 0.5, 2, 5, 50}
	counts := []int{0, 1, 2, 3, 10, 20, 21, 40}

	for _, budget := range budgets {
		for _, bid := range bids {
			for _, n := range counts {
				types := make([]domain.MatchType, n)
				for i := range types {
					types[i] = domain.MatchExact
				}
				got, err := Evaluate(manualConfig(budget, bid, keywords(types...)))
				require.NoError(t, err)
				require.GreaterOrEqual(t, got.Score, MinScore)
				require.LessOrEqual(t, got.Score, MaxScore)
				require.NotEmpty(t, got.ProTips)
				require.Equal(t, ClosingTip, got.ProTips[len(got.ProTips)-1])
			}
		}
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	cfg := manualConfig(5, 7, keywords(domain.MatchBroad, domain.MatchBroad, domain.MatchBroad, domain.MatchBroad))

	first, err := Evaluate(cfg)
	require.NoError(t, err)
	for range 5 {
		again, err := Evaluate(cfg)
		require.NoError(t, err)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("evaluation not deterministic (-first +again):\n%s", diff)
		}
	}
}

func TestConcurrentEvaluations(t *testing.T) {
	cfg := autoConfig(domain.AutoTargeting{LooseMatch: true, Complements: true})
	want, err := Evaluate(cfg)
	require.NoError(t, err)

	const workers = 32
	results := make([]domain.FeedbackResult, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		go func() {
			defer wg.Done()
			results[i], _ = Evaluate(cfg)
		}()
	}
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("worker %d result mismatch (-want +got):\n%s", i, diff)
		}
	}
}
