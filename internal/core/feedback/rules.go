package feedback

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"ppc-sim/internal/core/domain"
)

// Input is what a rule inspects: the campaign and the ad group under
// evaluation.
type Input struct {
	Campaign domain.CampaignConfig
	AdGroup  domain.AdGroupConfig
}

// Rule inspects an Input and returns its observations. Rules are independent
// of each other and must be total over well-formed input.
type Rule interface {
	Name() string
	Apply(in Input) []domain.Observation
}

// DefaultRules returns the built-in rules in evaluation order. The order
// determines the order of messages within each category.
func DefaultRules() []Rule {
	return []Rule{
		BudgetRule{},
		CampaignNameRule{},
		AdGroupNameRule{},
		TargetingRule{},
		BidRule{},
	}
}

func strength(msg string) domain.Observation {
	return domain.Observation{Category: domain.CategoryStrength, Message: msg}
}

func weakness(msg string, delta int) domain.Observation {
	return domain.Observation{Category: domain.CategoryWeakness, Message: msg, ScoreDelta: delta}
}

func proTip(msg string) domain.Observation {
	return domain.Observation{Category: domain.CategoryProTip, Message: msg}
}

// money renders an amount the way the wizard shows it: no trailing zeros.
func money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

// isGenericName reports whether a name says nothing about what it contains.
func isGenericName(name string) bool {
	return strings.Contains(strings.ToLower(name), genericNameMarker) ||
		utf8.RuneCountInString(name) < genericNameMinLen
}

// BudgetRule checks the daily budget against MinBudget.
type BudgetRule struct{}

func (BudgetRule) Name() string { return "budget" }

func (BudgetRule) Apply(in Input) []domain.Observation {
	budget := in.Campaign.DailyBudget
	if budget >= MinBudget {
		return []domain.Observation{
			strength(fmt.Sprintf("A daily budget of %s is a solid start for gathering performance data.", money(budget))),
		}
	}
	return []domain.Observation{
		weakness(fmt.Sprintf("A budget of %s is quite low. It may not be enough to get consistent traffic.", money(budget)), deltaLowBudget),
		proTip("Consider increasing your daily budget to at least $10-$20 to ensure your ads are shown more frequently."),
	}
}

// CampaignNameRule flags generic campaign names and praises descriptive ones.
type CampaignNameRule struct{}

func (CampaignNameRule) Name() string { return "campaign-name" }

func (CampaignNameRule) Apply(in Input) []domain.Observation {
	if isGenericName(in.Campaign.CampaignName) {
		return []domain.Observation{
			weakness("Your campaign name is generic. Descriptive names help with organization.", deltaGenericName),
		}
	}
	return []domain.Observation{
		strength("Your campaign name is descriptive and easy to identify. Great for organization!"),
	}
}

// AdGroupNameRule flags generic ad group names. A descriptive ad group name
// produces no observation at all.
type AdGroupNameRule struct{}

func (AdGroupNameRule) Name() string { return "ad-group-name" }

func (AdGroupNameRule) Apply(in Input) []domain.Observation {
	if isGenericName(in.AdGroup.AdGroupName) {
		return []domain.Observation{
			weakness("Your ad group name is generic. Specific names help you know what's inside at a glance.", deltaGenericName),
		}
	}
	return nil
}

// TargetingRule evaluates keyword targeting for manual campaigns and the
// enabled options for automatic ones. The path is chosen by campaign type.
type TargetingRule struct{}

func (TargetingRule) Name() string { return "targeting" }

func (TargetingRule) Apply(in Input) []domain.Observation {
	switch in.Campaign.CampaignType {
	case domain.CampaignManual:
		t, _ := in.AdGroup.Targeting.(domain.ManualTargeting)
		return manualTargeting(t)
	case domain.CampaignAuto:
		t, _ := in.AdGroup.Targeting.(domain.AutoTargeting)
		return autoTargeting(t)
	default:
		return nil
	}
}

func manualTargeting(t domain.ManualTargeting) []domain.Observation {
	var (
		obs   []domain.Observation
		count = len(t.Keywords)
	)

	switch {
	case count < MinKeywords:
		obs = append(obs,
			weakness(fmt.Sprintf("You only have %d keyword(s). This severely limits your reach.", count), deltaTooFewKeywords),
			proTip(fmt.Sprintf("Aim for at least %d-%d relevant keywords in an ad group to start.", MinKeywords, MaxKeywords)),
		)
	case count > MaxKeywords:
		obs = append(obs,
			weakness(fmt.Sprintf("You have %d keywords. This might be too broad for a single ad group.", count), deltaTooManyKeywords),
			proTip("If you have many keywords, consider splitting them into more tightly-themed ad groups."),
		)
	default:
		obs = append(obs,
			strength(fmt.Sprintf("A set of %d keywords is a good starting point for a targeted ad group.", count)),
		)
	}

	types := distinctMatchTypes(t.Keywords)
	switch {
	case len(types) == 1 && count > 1:
		obs = append(obs,
			weakness(fmt.Sprintf("You're only using one match type ('%s'). This can be inflexible.", types[0]), deltaSingleMatchType),
			proTip("Try using a mix of 'phrase' and 'exact' match keywords to balance reach and precision."),
		)
	case len(types) > 1:
		obs = append(obs,
			strength("Great job using multiple match types! This gives you a good mix of control and reach."),
		)
	}
	return obs
}

// distinctMatchTypes returns the match types in order of first appearance.
func distinctMatchTypes(kws []domain.Keyword) []domain.MatchType {
	seen := make(map[domain.MatchType]struct{}, 3)
	var types []domain.MatchType
	for _, kw := range kws {
		if _, ok := seen[kw.MatchType]; ok {
			continue
		}
		seen[kw.MatchType] = struct{}{}
		types = append(types, kw.MatchType)
	}
	return types
}

func autoTargeting(t domain.AutoTargeting) []domain.Observation {
	var obs []domain.Observation
	if len(t.EnabledOptions()) <= 1 {
		obs = append(obs,
			weakness("You've only enabled one automatic targeting option. This can limit Amazon's ability to explore.", deltaSingleAutoOption),
		)
	} else {
		obs = append(obs,
			strength("Using multiple automatic targeting options allows Amazon to effectively explore different traffic sources."),
		)
	}
	// Every auto campaign gets the harvesting tip.
	return append(obs,
		proTip("Auto campaigns are great for harvesting new, high-performing keywords. Check your search term report regularly!"),
	)
}

// BidRule checks the ad group's default bid against the reasonable range.
type BidRule struct{}

func (BidRule) Name() string { return "bid" }

func (BidRule) Apply(in Input) []domain.Observation {
	bid := in.AdGroup.DefaultBid
	switch {
	case bid < MinReasonableBid:
		return []domain.Observation{
			weakness(fmt.Sprintf("Your default bid of %s is very low and might not win many auctions.", money(bid)), deltaLowBid),
		}
	case bid > MaxReasonableBid:
		return []domain.Observation{
			weakness(fmt.Sprintf("Your default bid of %s is quite high. Be sure to monitor your costs closely.", money(bid)), deltaHighBid),
		}
	default:
		return []domain.Observation{
			strength(fmt.Sprintf("Your default bid of %s is a reasonable starting point.", money(bid))),
		}
	}
}
