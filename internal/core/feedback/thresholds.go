package feedback

// Scoring thresholds. Comparisons against MinKeywords and MaxKeywords are
// strict; the bid bounds are inclusive on the reasonable side.
const (
	BaseScore = 100
	MaxScore  = 100
	MinScore  = 0

	MinBudget = 10.0

	MinKeywords = 3
	MaxKeywords = 20

	MinReasonableBid = 0.5
	MaxReasonableBid = 5.0

	// genericNameMinLen is the shortest name not considered generic.
	genericNameMinLen = 5
	genericNameMarker = "test"
)

// Score deltas of the weaknesses.
const (
	deltaLowBudget        = -15
	deltaGenericName      = -5
	deltaTooFewKeywords   = -20
	deltaTooManyKeywords  = -10
	deltaSingleMatchType  = -10
	deltaSingleAutoOption = -10
	deltaLowBid           = -10
	deltaHighBid          = -5
)

// ClosingTip is always the last pro tip of a feedback result.
const ClosingTip = "Remember, PPC is all about testing and iterating. This is a great first step!"
