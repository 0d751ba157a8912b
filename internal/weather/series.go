// Package weather provides WeatherSeries, an ordered daily record lookup
// keyed by date, with O(1) lookup by date, bounds, and density checks
// over a date range (spec.md §2). It has no iterator; callers step
// through dates and call Lookup.
package weather

import (
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/urban-gardening/cropplanner/internal/models"
)

const dayLayout = "2006-01-02"

func normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Series is an ordered, date-indexed sequence of daily weather records.
type Series struct {
	byDate map[time.Time]models.WeatherRecord
	dates  []time.Time // sorted ascending
}

// NewSeries builds a Series from unordered records, normalizing each date
// to midnight UTC. Duplicate dates overwrite earlier ones; callers
// validating uniqueness (spec.md §3) should check Duplicates first.
func NewSeries(records []models.WeatherRecord) *Series {
	s := &Series{byDate: make(map[time.Time]models.WeatherRecord, len(records))}
	for _, r := range records {
		key := normalize(r.Date)
		s.byDate[key] = r
	}
	s.dates = make([]time.Time, 0, len(s.byDate))
	for d := range s.byDate {
		s.dates = append(s.dates, d)
	}
	sort.Slice(s.dates, func(i, j int) bool { return s.dates[i].Before(s.dates[j]) })
	return s
}

// Duplicates returns the count of input records that shared a date with an
// earlier record, used by boundary input validation (spec.md §3: "dates
// unique and dense").
func Duplicates(records []models.WeatherRecord) int {
	seen := make(map[string]bool, len(records))
	dups := 0
	for _, r := range records {
		key := normalize(r.Date).Format(dayLayout)
		if seen[key] {
			dups++
		}
		seen[key] = true
	}
	return dups
}

// Lookup returns the record for date, if present.
func (s *Series) Lookup(date time.Time) (models.WeatherRecord, bool) {
	r, ok := s.byDate[normalize(date)]
	return r, ok
}

// Covers reports whether every day in [start, end] inclusive has a record,
// i.e. the series is dense over that range.
func (s *Series) Covers(start, end time.Time) bool {
	start, end = normalize(start), normalize(end)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, ok := s.byDate[d]; !ok {
			return false
		}
	}
	return true
}

// FirstGap returns the first date in [start, end] inclusive with no
// record, and true, or the zero time and false if the range is dense.
func (s *Series) FirstGap(start, end time.Time) (time.Time, bool) {
	start, end = normalize(start), normalize(end)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, ok := s.byDate[d]; !ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// Bounds returns the earliest and latest dates present in the series.
func (s *Series) Bounds() (time.Time, time.Time) {
	if len(s.dates) == 0 {
		return time.Time{}, time.Time{}
	}
	return s.dates[0], s.dates[len(s.dates)-1]
}

// Len returns the number of distinct days in the series.
func (s *Series) Len() int {
	return len(s.dates)
}

// Fingerprint returns a stable hash of the series' content (every date
// and its daily mean temperature), used to key PeriodOptimizer's
// memoization cache so a changed weather series never hits a stale
// entry left by an earlier series over the same dates.
func (s *Series) Fingerprint() uint64 {
	h := fnv.New64a()
	for _, d := range s.dates {
		r := s.byDate[d]
		fmt.Fprintf(h, "%s:%.4f;", d.Format(dayLayout), r.TMean)
	}
	return h.Sum64()
}
