package domain

// Category buckets an observation in the feedback result.
type Category int

const (
	CategoryStrength Category = iota
	CategoryWeakness
	CategoryProTip
)

func (c Category) String() string {
	switch c {
	case CategoryStrength:
		return "strength"
	case CategoryWeakness:
		return "weakness"
	case CategoryProTip:
		return "pro-tip"
	default:
		return "unknown"
	}
}

// Observation is a single message produced by a feedback rule. ScoreDelta is
// never positive: good practices do not add to the score, mistakes subtract
// from it.
type Observation struct {
	Category   Category
	Message    string
	ScoreDelta int
}

// FeedbackResult is the outcome of evaluating a campaign configuration.
type FeedbackResult struct {
	Score      int      `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	ProTips    []string `json:"proTips"`
}
