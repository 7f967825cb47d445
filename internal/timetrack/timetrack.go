// Package timetrack holds the date arithmetic behind work-session
// bookkeeping: lunch-break subtraction, the 8-hour day budget, and per-tier
// time shares. Everything is pure; persistence lives in the repositories.
package timetrack

import (
	"fmt"
	"time"

	"taskboard/internal/model"
)

// DayBudgetMinutes is the tracked working time of one day (8 hours).
const DayBudgetMinutes = 480

// Lunch break 12:00-13:30 and end of workday 18:30.
const (
	lunchStartHour = 12
	lunchStartMin  = 0
	lunchEndHour   = 13
	lunchEndMin    = 30
	dayEndHour     = 18
	dayEndMin      = 30
)

// DateString formats a moment as the YYYY-MM-DD key used by day logs.
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// EndOfDay returns the 18:30 cutoff of the moment's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), dayEndHour, dayEndMin, 0, 0, t.Location())
}

// PastEndOfDay reports whether the moment falls at or after 18:30.
func PastEndOfDay(now time.Time) bool {
	h, m, _ := now.Clock()
	return h > dayEndHour || (h == dayEndHour && m >= dayEndMin)
}

// WorkDuration computes worked minutes between start and end with the lunch
// break subtracted. A session spanning the whole break loses the 90 minutes;
// a session starting inside the break counts from its end, one ending inside
// the break counts up to its start.
func WorkDuration(start, end time.Time) int {
	lunchStart := time.Date(start.Year(), start.Month(), start.Day(), lunchStartHour, lunchStartMin, 0, 0, start.Location())
	lunchEnd := time.Date(start.Year(), start.Month(), start.Day(), lunchEndHour, lunchEndMin, 0, 0, start.Location())

	if start.Before(lunchStart) && end.After(lunchEnd) {
		beforeLunch := lunchStart.Sub(start).Minutes()
		afterLunch := end.Sub(lunchEnd).Minutes()
		return int(roundHalf(beforeLunch + afterLunch))
	}

	if !start.Before(lunchStart) && start.Before(lunchEnd) {
		start = lunchEnd
	}
	if end.After(lunchStart) && !end.After(lunchEnd) {
		end = lunchStart
	}

	minutes := end.Sub(start).Minutes()
	if minutes < 0 {
		return 0
	}
	return int(roundHalf(minutes))
}

func roundHalf(v float64) float64 {
	if v < 0 {
		return 0
	}
	return float64(int(v + 0.5))
}

// FormatMinutes renders minutes as "2h 5m" style text.
func FormatMinutes(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60

	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", mins)
	case mins == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
}

// FormatMinutesAsHours renders minutes as decimal hours, e.g. "2.1h".
func FormatMinutesAsHours(minutes int) string {
	return fmt.Sprintf("%.1fh", float64(minutes)/60)
}

// TierShare is one tier's slice of a day's tracked time.
type TierShare struct {
	Tier       model.Tier
	Minutes    int
	Percentage int
}

// TierShares sums session minutes per tier and computes each tier's share of
// the used total. Sessions outside tiers 1-4 are ignored.
func TierShares(sessions []model.WorkSession) []TierShare {
	minutes := map[model.Tier]int{}
	used := 0
	for _, session := range sessions {
		if session.Tier.Valid() {
			minutes[session.Tier] += session.DurationMinutes
			used += session.DurationMinutes
		}
	}

	if used == 0 {
		used = 1 // avoid dividing by zero; every share reads 0%
	}

	shares := make([]TierShare, 0, 4)
	for tier := model.TierRevenue; tier <= model.TierDaily; tier++ {
		shares = append(shares, TierShare{
			Tier:       tier,
			Minutes:    minutes[tier],
			Percentage: int(roundHalf(float64(minutes[tier]) / float64(used) * 100)),
		})
	}
	return shares
}
