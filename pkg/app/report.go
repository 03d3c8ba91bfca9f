package app

import (
	"context"
	"time"

	"tableflip.dev/logger/pkg/entry"
)

// Day groups the entries created on one calendar day.
type Day struct {
	Date    time.Time
	Entries []*entry.Entry
}

// ReportResult collects the entries created within a time window, grouped by
// day, oldest first.
type ReportResult struct {
	Since time.Time
	Until time.Time
	Days  []Day
	Total int
}

// Since reports entries created within the window ending now. A zero window
// reports everything.
func (s *Service) Since(ctx context.Context, window time.Duration) (ReportResult, error) {
	until := time.Now()
	var since time.Time
	if window > 0 {
		since = until.Add(-window)
	}
	return s.Report(ctx, since, until)
}

// Report returns entries created between the provided bounds.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if since.After(until) {
		since, until = until, since
	}
	all, err := s.Entries(ctx)
	if err != nil {
		return ReportResult{}, err
	}

	result := ReportResult{Since: since, Until: until}
	for _, e := range all {
		if e == nil {
			continue
		}
		created := e.Created.Local()
		if created.Before(since) || created.After(until) {
			continue
		}
		day := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, created.Location())
		if n := len(result.Days); n == 0 || !result.Days[n-1].Date.Equal(day) {
			result.Days = append(result.Days, Day{Date: day})
		}
		last := &result.Days[len(result.Days)-1]
		last.Entries = append(last.Entries, e)
		result.Total++
	}
	return result, nil
}
