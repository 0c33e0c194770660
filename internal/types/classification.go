package types

// Classification tags a strategy with its intended holding horizon. It is
// stored and returned only; an external scheduler uses it to pick an
// evaluation cadence.
type Classification string

const (
	ClassificationIntraday  Classification = "intraday"
	ClassificationShortTerm Classification = "short_term"
	ClassificationSwing     Classification = "swing"
	ClassificationLongTerm  Classification = "long_term"
)

// AllClassifications lists every valid classification value, used for config
// schema generation.
var AllClassifications = []any{
	string(ClassificationIntraday),
	string(ClassificationShortTerm),
	string(ClassificationSwing),
	string(ClassificationLongTerm),
}
