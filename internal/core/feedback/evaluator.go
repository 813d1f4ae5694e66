// Package feedback scores a campaign configuration with a fixed set of
// heuristic rules and explains the score with categorized messages.
//
// Evaluation is a pure function of its input: it performs no I/O, keeps no
// state between calls and is safe for concurrent use.
package feedback

import (
	"fmt"
	"math"

	"ppc-sim/internal/core/domain"
)

// Evaluator runs an ordered rule set over the first ad group of a campaign.
type Evaluator struct {
	rules []Rule
}

// NewEvaluator returns an evaluator running the given rules in order, or
// DefaultRules when none are given.
func NewEvaluator(rules ...Rule) *Evaluator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Evaluator{rules: rules}
}

var defaultEvaluator = NewEvaluator()

// RuleNames returns the names of the rules e runs, in evaluation order.
func (e *Evaluator) RuleNames() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name()
	}
	return names
}

// Evaluate scores cfg with the default rules.
func Evaluate(cfg domain.CampaignConfig) (domain.FeedbackResult, error) {
	return defaultEvaluator.Evaluate(cfg)
}

// Evaluate validates the preconditions of cfg, applies every rule to its
// first ad group and assembles the result. The only error returned is a
// *domain.InvalidConfigError.
func (e *Evaluator) Evaluate(cfg domain.CampaignConfig) (domain.FeedbackResult, error) {
	if err := validate(cfg); err != nil {
		return domain.FeedbackResult{}, err
	}

	in := Input{Campaign: cfg, AdGroup: cfg.AdGroups[0]}
	var obs []domain.Observation
	for _, r := range e.rules {
		obs = append(obs, r.Apply(in)...)
	}
	return assemble(obs), nil
}

// validate rejects configurations the rules cannot be applied to. Out of
// range numbers are not rejected: they are scored.
func validate(cfg domain.CampaignConfig) error {
	if len(cfg.AdGroups) == 0 {
		return &domain.InvalidConfigError{Field: "adGroups", Reason: "at least one ad group is required"}
	}
	if !isFinite(cfg.DailyBudget) {
		return &domain.InvalidConfigError{Field: "dailyBudget", Reason: "must be a finite number"}
	}

	ag := cfg.AdGroups[0]
	if !isFinite(ag.DefaultBid) {
		return &domain.InvalidConfigError{Field: "adGroups[0].defaultBid", Reason: "must be a finite number"}
	}

	var ok bool
	switch cfg.CampaignType {
	case domain.CampaignManual:
		_, ok = ag.Targeting.(domain.ManualTargeting)
	case domain.CampaignAuto:
		_, ok = ag.Targeting.(domain.AutoTargeting)
	default:
		return &domain.InvalidConfigError{Field: "campaignType", Reason: fmt.Sprintf("unknown campaign type %q", cfg.CampaignType)}
	}
	if !ok {
		return &domain.InvalidConfigError{
			Field:  "adGroups[0].targeting",
			Reason: fmt.Sprintf("%s targeting is required for a %s campaign", cfg.CampaignType, cfg.CampaignType),
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// assemble folds observations into a result: the score starts at BaseScore,
// every delta is added and the total is clamped to [MinScore, MaxScore].
// Messages keep the order they were produced in and ClosingTip is appended
// last.
func assemble(obs []domain.Observation) domain.FeedbackResult {
	res := domain.FeedbackResult{
		Score:      BaseScore,
		Strengths:  []string{},
		Weaknesses: []string{},
		ProTips:    []string{},
	}
	for _, o := range obs {
		res.Score += o.ScoreDelta
		switch o.Category {
		case domain.CategoryStrength:
			res.Strengths = append(res.Strengths, o.Message)
		case domain.CategoryWeakness:
			res.Weaknesses = append(res.Weaknesses, o.Message)
		case domain.CategoryProTip:
			res.ProTips = append(res.ProTips, o.Message)
		}
	}
	res.Score = max(MinScore, min(MaxScore, res.Score))
	res.ProTips = append(res.ProTips, ClosingTip)
	return res
}
