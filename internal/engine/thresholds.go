package engine

import "fmt"

// AlertLevel is the discrete severity tier derived from an overall score.
type AlertLevel string

const (
	AlertNone     AlertLevel = "none"
	AlertWarning  AlertLevel = "warning"
	AlertHigh     AlertLevel = "high"
	AlertCritical AlertLevel = "critical"
)

var alertRanks = map[AlertLevel]int{
	AlertNone:     0,
	AlertWarning:  1,
	AlertHigh:     2,
	AlertCritical: 3,
}

// Rank returns the ordinal severity of the level, with AlertNone lowest.
func (l AlertLevel) Rank() int {
	return alertRanks[l]
}

// AtLeast reports whether l is as severe as min.
func (l AlertLevel) AtLeast(min AlertLevel) bool {
	return l.Rank() >= min.Rank()
}

// Thresholds holds the alert tier boundaries. The ordering invariant
// 0 <= Warning < High < Critical <= 1 is enforced once by Validate at
// configuration time; Classify assumes a validated receiver.
type Thresholds struct {
	Warning  float64 `json:"warning"`
	High     float64 `json:"high"`
	Critical float64 `json:"critical"`
}

// Validate enforces the threshold ordering invariant.
func (t Thresholds) Validate() error {
	if t.Warning < 0 || t.Critical > 1 {
		return fmt.Errorf("%w: bounds [%.3f, %.3f] outside [0, 1]", ErrInvalidThresholds, t.Warning, t.Critical)
	}
	if !(t.Warning < t.High && t.High < t.Critical) {
		return fmt.Errorf(
			"%w: require warning < high < critical, got %.3f, %.3f, %.3f",
			ErrInvalidThresholds, t.Warning, t.High, t.Critical,
		)
	}
	return nil
}

// Classify maps an overall score to its alert tier using left-closed
// intervals: a score exactly equal to a boundary takes the higher tier.
// Pure and total: identical inputs always yield identical levels.
func (t Thresholds) Classify(overall float64) AlertLevel {
	switch {
	case overall >= t.Critical:
		return AlertCritical
	case overall >= t.High:
		return AlertHigh
	case overall >= t.Warning:
		return AlertWarning
	default:
		return AlertNone
	}
}
