package advisor

import (
	"fmt"
	"pto-advisor/models"
	"time"
)

// CheckPolicy returns advisory notes where a request conflicts with policy
// metadata: blackout periods, consecutive-day limits, advance notice and
// remaining balance. Notes never change the classification; blackout periods
// in particular are reported, not enforced. balance may be nil.
func CheckPolicy(policy models.Policy, req models.LeaveRequest, balance *models.Balance, now time.Time) []string {
	var notes []string

	for _, blackout := range policy.BlackoutPeriods {
		if req.Period.Overlaps(blackout) {
			notes = append(notes, fmt.Sprintf("Overlaps blackout period %s (%s)", blackout, policy.Name))
		}
	}

	businessDays := req.Period.BusinessDays()
	if policy.MaxConsecutiveDays > 0 && businessDays > policy.MaxConsecutiveDays {
		notes = append(notes, fmt.Sprintf("Exceeds max consecutive days (%d/%d)", businessDays, policy.MaxConsecutiveDays))
	}

	if policy.AdvanceNoticeDays > 0 {
		submitted := req.SubmittedAt
		if submitted.IsZero() {
			submitted = now
		}
		notice := int(req.Period.Start.Sub(models.Day(submitted)).Hours() / 24)
		if notice < policy.AdvanceNoticeDays {
			notes = append(notes, fmt.Sprintf("Short notice (%d of %d days required)", notice, policy.AdvanceNoticeDays))
		}
	}

	if balance != nil && req.Status == models.StatusPending {
		if remaining := balance.Remaining(req.Type); businessDays > remaining {
			notes = append(notes, fmt.Sprintf("Insufficient %s balance (%d requested, %d remaining)", req.Type, businessDays, remaining))
		}
	}

	return notes
}
