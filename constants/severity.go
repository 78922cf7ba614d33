package constants

// Severity classifies how much a criterion matters to the overall verdict
// ranking. It never changes the flag itself, only the review order.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityWeight = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

func (s Severity) Weight() int {
	return severityWeight[s]
}

func (s Severity) Valid() bool {
	_, ok := severityWeight[s]
	return ok
}

// Severities lists the allowed values, mildest first.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
