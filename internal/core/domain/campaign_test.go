package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignConfigUnmarshalManual(t *testing.T) {
	body := `{
		"campaignName": "Summer Sale 2024",
		"campaignType": "MANUAL",
		"dailyBudget": 50,
		"adGroups": [{
			"adGroupName": "Electronics Ad Group",
			"defaultBid": 1.5,
			"targeting": {"manualKeywords": [
				{"text": "wireless earbuds", "matchType": "exact"},
				{"text": "bluetooth earbuds", "matchType": "Phrase"}
			]}
		}]
	}`

	var cfg CampaignConfig
	require.NoError(t, json.Unmarshal([]byte(body), &cfg))

	assert.Equal(t, CampaignManual, cfg.CampaignType)
	assert.Equal(t, 50.0, cfg.DailyBudget)
	require.Len(t, cfg.AdGroups, 1)
	assert.Equal(t, ManualTargeting{Keywords: []Keyword{
		{Text: "wireless earbuds", MatchType: MatchExact},
		{Text: "bluetooth earbuds", MatchType: MatchPhrase},
	}}, cfg.AdGroups[0].Targeting)
}

func TestCampaignConfigUnmarshalTargetingVariants(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		tgt  string
		want Targeting
	}{
		{name: "manual without keyword list", typ: "manual", tgt: `{}`, want: ManualTargeting{}},
		{name: "manual without targeting", typ: "manual", tgt: `null`, want: nil},
		{name: "auto", typ: "auto", tgt: `{"autoTargeting": {"closeMatch": true, "substitutes": true}}`, want: AutoTargeting{CloseMatch: true, Substitutes: true}},
		{name: "auto without auto targeting", typ: "auto", tgt: `{}`, want: nil},
		{name: "auto with keywords only", typ: "auto", tgt: `{"manualKeywords": []}`, want: ManualTargeting{Keywords: []Keyword{}}},
		{name: "manual with auto targeting only", typ: "manual", tgt: `{"autoTargeting": {}}`, want: AutoTargeting{}},
		{
			name: "both variants present",
			typ:  "auto",
			tgt:  `{"manualKeywords": [{"text": "a", "matchType": "broad"}], "autoTargeting": {"looseMatch": true}}`,
			want: AutoTargeting{LooseMatch: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"campaignName":"n","campaignType":"` + tt.typ + `","dailyBudget":1,"adGroups":[{"adGroupName":"g","defaultBid":1,"targeting":` + tt.tgt + `}]}`
			var cfg CampaignConfig
			require.NoError(t, json.Unmarshal([]byte(body), &cfg))
			assert.Equal(t, tt.want, cfg.AdGroups[0].Targeting)
		})
	}
}

func TestCampaignConfigUnmarshalRejectsUnknownEnums(t *testing.T) {
	bodies := map[string]string{
		"campaignType": `{"campaignType":"hybrid","adGroups":[]}`,
		"matchType":    `{"campaignType":"manual","adGroups":[{"targeting":{"manualKeywords":[{"text":"a","matchType":"fuzzy"}]}}]}`,
	}
	for field, body := range bodies {
		var cfg CampaignConfig
		err := json.Unmarshal([]byte(body), &cfg)
		require.Error(t, err, field)
		assert.True(t, errors.Is(err, ErrInvalidConfig), field)

		var invalid *InvalidConfigError
		require.True(t, errors.As(err, &invalid), field)
		assert.Equal(t, field, invalid.Field)
	}
}

func TestCampaignConfigMarshalWritesWizardShape(t *testing.T) {
	cfg := CampaignConfig{
		CampaignName: "Yoga Mats",
		CampaignType: CampaignAuto,
		DailyBudget:  20,
		AdGroups: []AdGroupConfig{{
			AdGroupName: "Mats Auto",
			DefaultBid:  0.75,
			Targeting:   AutoTargeting{CloseMatch: true, Complements: true},
		}},
	}

	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"campaignName": "Yoga Mats",
		"campaignType": "auto",
		"dailyBudget": 20,
		"adGroups": [{
			"adGroupName": "Mats Auto",
			"defaultBid": 0.75,
			"targeting": {"autoTargeting": {"closeMatch": true, "looseMatch": false, "substitutes": false, "complements": true}}
		}]
	}`, string(b))

	var back CampaignConfig
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, cfg, back)
}

func TestManualTargetingMarshalsEmptyKeywordList(t *testing.T) {
	cfg := CampaignConfig{
		CampaignType: CampaignManual,
		AdGroups:     []AdGroupConfig{{Targeting: ManualTargeting{}}},
	}
	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"manualKeywords":[]`)
}

func TestPerformanceRatios(t *testing.T) {
	r := PerformanceTotals{Impressions: 1000, Clicks: 20, Spend: 30, Orders: 2, Sales: 60}.Ratios()
	assert.InDelta(t, 2.0, r.CTR, 1e-9)
	assert.InDelta(t, 10.0, r.CVR, 1e-9)
	assert.InDelta(t, 1.5, r.CPC, 1e-9)
	assert.InDelta(t, 50.0, r.ACOS, 1e-9)
	assert.InDelta(t, 2.0, r.ROAS, 1e-9)

	assert.Equal(t, PerformanceRatios{}, PerformanceTotals{}.Ratios())
}

func TestParseCampaignStatus(t *testing.T) {
	s, err := ParseCampaignStatus("Paused")
	require.NoError(t, err)
	assert.Equal(t, StatusPaused, s)

	_, err = ParseCampaignStatus("deleted")
	assert.Error(t, err)
}
