// Package timeutil parses the compact time windows accepted by --since.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultWindow is the window used for a bare --since.
const DefaultWindow = "1w"

const day = 24 * time.Hour

type unit struct {
	label   string
	aliases []string
	value   time.Duration
}

// units runs largest first; FormatWindow relies on the order.
var units = []unit{
	{"mo", []string{"month", "months"}, 30 * day},
	{"w", []string{"wk", "wks", "week", "weeks"}, 7 * day},
	{"d", []string{"day", "days"}, day},
	{"h", []string{"hr", "hrs", "hour", "hours"}, time.Hour},
	{"m", []string{"min", "mins", "minute", "minutes"}, time.Minute},
	{"s", []string{"sec", "secs", "second", "seconds"}, time.Second},
}

var (
	segment = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	byName  = func() map[string]time.Duration {
		m := map[string]time.Duration{}
		for _, u := range units {
			m[u.label] = u.value
			for _, a := range u.aliases {
				m[a] = u.value
			}
		}
		return m
	}()
)

// ParseWindow parses windows such as "1w", "3d" or "1w2d6h" and returns the
// duration with its canonical label. Empty input means DefaultWindow.
func ParseWindow(input string) (time.Duration, string, error) {
	rest := strings.ToLower(strings.TrimSpace(input))
	if rest == "" {
		rest = DefaultWindow
	}

	var total time.Duration
	for rest != "" {
		m := segment.FindStringSubmatch(rest)
		if m == nil {
			return 0, "", fmt.Errorf("invalid duration segment %q", strings.TrimSpace(rest))
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid duration value %q: %w", m[1], err)
		}
		base, ok := byName[m[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported duration unit %q", m[2])
		}
		total += time.Duration(n) * base
		rest = strings.TrimSpace(rest[len(m[0]):])
	}

	if total <= 0 {
		return 0, "", fmt.Errorf("duration must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// Cutoff returns the start of the window named by input, counted back from
// now. Besides ParseWindow windows it accepts "today" and "yesterday", which
// start at local midnight.
func Cutoff(input string, now time.Time) (time.Time, string, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "today":
		return midnight, "today", nil
	case "yesterday":
		return midnight.AddDate(0, 0, -1), "yesterday", nil
	}
	d, label, err := ParseWindow(input)
	if err != nil {
		return time.Time{}, "", err
	}
	return now.Add(-d), label, nil
}

// FormatWindow renders d with the largest units first, e.g. "1w2d6h".
func FormatWindow(d time.Duration) string {
	var b strings.Builder
	for _, u := range units {
		if d < u.value {
			continue
		}
		n := d / u.value
		d -= n * u.value
		fmt.Fprintf(&b, "%d%s", n, u.label)
	}
	if b.Len() == 0 {
		return "0s"
	}
	return b.String()
}
