package weather

import (
	"sort"
	"time"
)

// MaxForecastDays bounds the number of daily summaries.
const MaxForecastDays = 5

// AggregateDaily reduces a forecast series to at most MaxForecastDays summaries, one per
// calendar day in loc, each being the sample whose hour is closest to noon.
// An equal distance never replaces the current pick, so ties keep the earliest sample.
func AggregateDaily(series ForecastSeries, loc *time.Location) []DailySummary {
	if len(series) == 0 {
		return []DailySummary{}
	}
	if loc == nil {
		loc = time.Local
	}

	picks := make(map[string]Sample)
	for _, s := range series {
		day := s.Time(loc).Format(time.DateOnly)
		best, ok := picks[day]
		if !ok || noonDistance(s, loc) < noonDistance(best, loc) {
			picks[day] = s
		}
	}

	days := make([]string, 0, len(picks))
	for day := range picks {
		days = append(days, day)
	}
	sort.Strings(days)

	if len(days) > MaxForecastDays {
		days = days[:MaxForecastDays]
	}

	out := make([]DailySummary, 0, len(days))
	for _, day := range days {
		s := picks[day]
		out = append(out, DailySummary{
			Date:    day,
			Weekday: s.Time(loc).Weekday().String(),
			Sample:  s,
		})
	}
	return out
}

func noonDistance(s Sample, loc *time.Location) int {
	d := s.Time(loc).Hour() - 12
	if d < 0 {
		return -d
	}
	return d
}
