package services

import (
	"fmt"
	"math"
	"time"

	"eventhub/internal/models"
)

// DaysPerMonth is the month length used for inactivity thresholds. Months
// are approximated as 30 days, not calendar months.
const DaysPerMonth = 30

const nearStaleRatio = 0.75

func ThresholdDays(months int) (int, error) {
	if months <= 0 {
		return 0, fmt.Errorf("%w: inactivity threshold must be positive, got %d months", ErrInvalidArgument, months)
	}
	return months * DaysPerMonth, nil
}

// EvaluateInactivity derives the activity status of p at now. A partnership
// with no recorded activity is inactive and has no day count.
func EvaluateInactivity(p models.Partnership, now time.Time) (models.InactivityStatus, error) {
	thresholdDays, err := ThresholdDays(p.InactivityThresholdMonths)
	if err != nil {
		return models.InactivityStatus{}, err
	}

	st := models.InactivityStatus{
		PartnershipID:                  p.ID,
		LastActivityDate:               p.LastActivityDate,
		InactivityThresholdMonths:      p.InactivityThresholdMonths,
		ThresholdDays:                  thresholdDays,
		NotifyOnInactivity:             p.NotifyOnInactivity,
		LastInactivityNotificationSent: p.LastInactivityNotificationSent,
	}
	if p.LastActivityDate == nil {
		st.IsInactive = true
		return st, nil
	}

	days := daysBetween(*p.LastActivityDate, now)
	st.DaysSinceLastActivity = &days
	st.IsInactive = days >= thresholdDays
	st.IsNearStale = !st.IsInactive && float64(days) >= float64(thresholdDays)*nearStaleRatio
	return st, nil
}

// ShouldNotify reports whether an inactivity notification is due: the
// partnership opted in, is inactive, and the last notification (if any) is
// more than one threshold period old.
func ShouldNotify(p models.Partnership, now time.Time) (bool, error) {
	st, err := EvaluateInactivity(p, now)
	if err != nil {
		return false, err
	}
	return notifyDue(st, now), nil
}

// notifyDue applies the opt-in and cooldown rules to an evaluated status.
func notifyDue(st models.InactivityStatus, now time.Time) bool {
	if !st.NotifyOnInactivity || !st.IsInactive {
		return false
	}
	if st.LastInactivityNotificationSent == nil {
		return true
	}
	cooldown := time.Duration(st.ThresholdDays) * 24 * time.Hour
	return now.Sub(*st.LastInactivityNotificationSent) > cooldown
}

// whole days from since to now, floored; never negative.
func daysBetween(since, now time.Time) int {
	d := now.Sub(since)
	if d <= 0 {
		return 0
	}
	return int(math.Floor(d.Hours() / 24))
}
