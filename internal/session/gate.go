package session

import (
	"sort"

	"github.com/stemsi/ailit-assessment/internal/model"
)

// CheckComplete fails with an *IncompleteError when any session is still in
// progress. Dimensions that were never opened have no session and pass.
func CheckComplete(state model.AssessmentState) error {
	var pending []string
	for id, s := range state.Sessions {
		if s != nil && s.Status == model.SessionStatusInProgress {
			pending = append(pending, id)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	sort.Strings(pending)
	return &IncompleteError{DimensionIDs: pending}
}
