package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CampaignType selects the targeting mode of a campaign.
type CampaignType string

const (
	CampaignManual CampaignType = "manual"
	CampaignAuto   CampaignType = "auto"
)

// ParseCampaignType accepts a campaign type regardless of case.
func ParseCampaignType(s string) (CampaignType, error) {
	switch CampaignType(strings.ToLower(s)) {
	case CampaignManual:
		return CampaignManual, nil
	case CampaignAuto:
		return CampaignAuto, nil
	default:
		return "", &InvalidConfigError{Field: "campaignType", Reason: fmt.Sprintf("unknown campaign type %q", s)}
	}
}

// CampaignConfig is the campaign assembled by the creation wizard. It is the
// input of feedback evaluation and is stored alongside the campaign.
type CampaignConfig struct {
	CampaignName string
	CampaignType CampaignType
	DailyBudget  float64
	AdGroups     []AdGroupConfig
}

// AdGroupConfig is a named container with a default bid and one targeting
// configuration.
type AdGroupConfig struct {
	AdGroupName string
	DefaultBid  float64
	Targeting   Targeting
}

// CampaignStatus is the lifecycle state of a stored campaign.
type CampaignStatus string

const (
	StatusEnabled  CampaignStatus = "enabled"
	StatusPaused   CampaignStatus = "paused"
	StatusArchived CampaignStatus = "archived"
)

// ParseCampaignStatus accepts a status regardless of case.
func ParseCampaignStatus(s string) (CampaignStatus, error) {
	switch CampaignStatus(strings.ToLower(s)) {
	case StatusEnabled:
		return StatusEnabled, nil
	case StatusPaused:
		return StatusPaused, nil
	case StatusArchived:
		return StatusArchived, nil
	default:
		return "", fmt.Errorf("unknown campaign status %q", s)
	}
}

// Campaign is a persisted campaign together with the feedback computed for
// its latest configuration.
type Campaign struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Type        CampaignType   `json:"campaignType"`
	DailyBudget float64        `json:"dailyBudget"`
	Status      CampaignStatus `json:"status"`
	Config      CampaignConfig `json:"config"`
	Feedback    FeedbackResult `json:"feedback"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// campaignConfigJSON is the wire shape produced by the wizard. Targeting
// carries both variants side by side; the campaign type decides which one is
// read.
type campaignConfigJSON struct {
	CampaignName string        `json:"campaignName"`
	CampaignType string        `json:"campaignType"`
	DailyBudget  float64       `json:"dailyBudget"`
	AdGroups     []adGroupJSON `json:"adGroups"`
}

type adGroupJSON struct {
	AdGroupName string         `json:"adGroupName"`
	DefaultBid  float64        `json:"defaultBid"`
	Targeting   *targetingJSON `json:"targeting"`
}

type targetingJSON struct {
	ManualKeywords *[]Keyword     `json:"manualKeywords,omitempty"`
	AutoTargeting  *AutoTargeting `json:"autoTargeting,omitempty"`
}

// MarshalJSON writes the wizard wire shape.
func (c CampaignConfig) MarshalJSON() ([]byte, error) {
	out := campaignConfigJSON{
		CampaignName: c.CampaignName,
		CampaignType: string(c.CampaignType),
		DailyBudget:  c.DailyBudget,
		AdGroups:     make([]adGroupJSON, 0, len(c.AdGroups)),
	}
	for _, ag := range c.AdGroups {
		wire := adGroupJSON{AdGroupName: ag.AdGroupName, DefaultBid: ag.DefaultBid}
		switch t := ag.Targeting.(type) {
		case ManualTargeting:
			kws := t.Keywords
			if kws == nil {
				kws = []Keyword{}
			}
			wire.Targeting = &targetingJSON{ManualKeywords: &kws}
		case AutoTargeting:
			wire.Targeting = &targetingJSON{AutoTargeting: &t}
		}
		out.AdGroups = append(out.AdGroups, wire)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the wizard wire shape. A manual ad group whose
// targeting omits the keyword list gets an empty one; an auto ad group
// without auto targeting, or any ad group without a targeting object, is
// left with a nil Targeting and rejected at evaluation time.
func (c *CampaignConfig) UnmarshalJSON(b []byte) error {
	var in campaignConfigJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	typ, err := ParseCampaignType(in.CampaignType)
	if err != nil {
		return err
	}

	cfg := CampaignConfig{
		CampaignName: in.CampaignName,
		CampaignType: typ,
		DailyBudget:  in.DailyBudget,
		AdGroups:     make([]AdGroupConfig, 0, len(in.AdGroups)),
	}
	for _, ag := range in.AdGroups {
		cfg.AdGroups = append(cfg.AdGroups, AdGroupConfig{
			AdGroupName: ag.AdGroupName,
			DefaultBid:  ag.DefaultBid,
			Targeting:   ag.Targeting.variant(typ),
		})
	}
	*c = cfg
	return nil
}

func (t *targetingJSON) variant(typ CampaignType) Targeting {
	if t == nil {
		return nil
	}
	manual := func() Targeting {
		if t.ManualKeywords == nil {
			return ManualTargeting{}
		}
		return ManualTargeting{Keywords: *t.ManualKeywords}
	}
	switch typ {
	case CampaignManual:
		if t.AutoTargeting != nil && t.ManualKeywords == nil {
			return *t.AutoTargeting
		}
		return manual()
	case CampaignAuto:
		if t.AutoTargeting != nil {
			return *t.AutoTargeting
		}
		if t.ManualKeywords != nil {
			return manual()
		}
	}
	return nil
}
