package services

import (
	"fmt"
	"strings"
	"time"

	"gst_invoicing_backend/internal/models"
)

// Time frames accepted by ResolveTimeFrame.
const (
	TimeFrame1Day    = "1day"
	TimeFrame30Days  = "30days"
	TimeFrame90Days  = "90days"
	TimeFrame1Year   = "1year"
	TimeFrameAllTime = "alltime"
	TimeFrameCustom  = "custom"
)

// ResolveTimeFrame turns report query parameters into a half-open date range.
// Preset frames count back whole days from today's midnight and end at the start
// of tomorrow. Unknown frames fall back to 30 days. A custom "to" date is inclusive.
func ResolveTimeFrame(params models.ReportRequestParams, now time.Time) (models.DateRange, error) {
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	daysBack := func(n int) models.DateRange {
		return models.DateRange{From: today.AddDate(0, 0, -n), To: tomorrow}
	}

	switch strings.ToLower(strings.TrimSpace(params.TimeFrame)) {
	case TimeFrame1Day:
		return daysBack(1), nil
	case TimeFrame90Days:
		return daysBack(90), nil
	case TimeFrame1Year:
		return daysBack(365), nil
	case TimeFrameAllTime:
		return models.DateRange{From: time.Date(2020, time.January, 1, 0, 0, 0, 0, now.Location()), To: tomorrow}, nil
	case TimeFrameCustom:
		rng := daysBack(30)
		if params.From != "" {
			from, err := time.ParseInLocation(dateLayout, params.From, now.Location())
			if err != nil {
				return models.DateRange{}, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrValidation)
			}
			rng.From = from
		}
		if params.To != "" {
			to, err := time.ParseInLocation(dateLayout, params.To, now.Location())
			if err != nil {
				return models.DateRange{}, fmt.Errorf("%w: to must be YYYY-MM-DD", ErrValidation)
			}
			rng.To = to.AddDate(0, 0, 1)
		}
		if !rng.From.Before(rng.To) {
			return models.DateRange{}, fmt.Errorf("%w: from must not be after to", ErrValidation)
		}
		return rng, nil
	default:
		return daysBack(30), nil
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseLedgerDate reads a stored YYYY-MM-DD date as local midnight.
// Full RFC3339 timestamps are accepted too.
func parseLedgerDate(s string, loc *time.Location) (time.Time, bool) {
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return startOfDay(t.In(loc)), true
	}
	return time.Time{}, false
}

func inRange(date string, rng models.DateRange) bool {
	t, ok := parseLedgerDate(date, rng.From.Location())
	return ok && rng.Contains(t)
}
