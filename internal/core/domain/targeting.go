package domain

import (
	"fmt"
	"strings"
)

// MatchType is the keyword matching strictness.
type MatchType string

const (
	MatchBroad  MatchType = "broad"
	MatchPhrase MatchType = "phrase"
	MatchExact  MatchType = "exact"
)

// ParseMatchType accepts a match type regardless of case.
func ParseMatchType(s string) (MatchType, error) {
	switch MatchType(strings.ToLower(s)) {
	case MatchBroad:
		return MatchBroad, nil
	case MatchPhrase:
		return MatchPhrase, nil
	case MatchExact:
		return MatchExact, nil
	default:
		return "", fmt.Errorf("unknown match type %q", s)
	}
}

// Keyword is one manually targeted keyword.
type Keyword struct {
	Text      string    `json:"text"`
	MatchType MatchType `json:"matchType"`
}

// Targeting is the targeting configuration of an ad group. It is either
// ManualTargeting or AutoTargeting; the campaign type decides which one is
// expected.
type Targeting interface {
	targetingType() CampaignType
}

// ManualTargeting is a user supplied keyword list.
type ManualTargeting struct {
	Keywords []Keyword `json:"keywords"`
}

func (ManualTargeting) targetingType() CampaignType { return CampaignManual }

// AutoTargeting holds the toggles that delegate target discovery to the
// marketplace.
type AutoTargeting struct {
	CloseMatch  bool `json:"closeMatch"`
	LooseMatch  bool `json:"looseMatch"`
	Substitutes bool `json:"substitutes"`
	Complements bool `json:"complements"`
}

func (AutoTargeting) targetingType() CampaignType { return CampaignAuto }

// EnabledOptions returns the names of the enabled options in a stable order.
func (a AutoTargeting) EnabledOptions() []string {
	var opts []string
	if a.CloseMatch {
		opts = append(opts, "close-match")
	}
	if a.LooseMatch {
		opts = append(opts, "loose-match")
	}
	if a.Substitutes {
		opts = append(opts, "substitutes")
	}
	if a.Complements {
		opts = append(opts, "complements")
	}
	return opts
}

// UnmarshalText validates match types coming from JSON.
func (m *MatchType) UnmarshalText(b []byte) error {
	mt, err := ParseMatchType(string(b))
	if err != nil {
		return &InvalidConfigError{Field: "matchType", Reason: err.Error()}
	}
	*m = mt
	return nil
}
