package scoring

import "github.com/stemsi/ailit-assessment/internal/model"

// Band thresholds on the mean self-rating.
const (
	ThresholdLow    = 2.5
	ThresholdMedium = 3.9
)

// GatekeeperMax is the attainable gatekeeper score of a dimension: two
// scenario questions of weight 1. It is fixed, not counted from the catalogue.
const GatekeeperMax = 2

// Downgrade reasons attached to demoted outcomes.
const (
	ReasonFailedBothScenarios = "solid self-image but failed both safety scenarios."
	ReasonScenarioGaps        = "high self-assessment but safety gaps revealed in scenarios."
)

// Classification is the outcome of the band table.
type Classification struct {
	Level      model.Level
	Downgraded bool
	Reason     string
}

// Classify maps a mean self-rating and gatekeeper score onto a level.
//
//	mean <  2.5           level 0
//	2.5 <= mean <= 3.9    gk == 0: level 1 downgraded, else level 2
//	mean >  3.9           gk == 2: level 3, else level 2 downgraded
func Classify(mean float64, gatekeeper int) Classification {
	switch {
	case mean < ThresholdLow:
		return Classification{Level: model.Level0}
	case mean <= ThresholdMedium:
		if gatekeeper == 0 {
			return Classification{Level: model.Level1, Downgraded: true, Reason: ReasonFailedBothScenarios}
		}
		return Classification{Level: model.Level2}
	default:
		if gatekeeper == GatekeeperMax {
			return Classification{Level: model.Level3}
		}
		return Classification{Level: model.Level2, Downgraded: true, Reason: ReasonScenarioGaps}
	}
}
