package entities

import "strings"

// TimeGrouping selects the dashboard reporting window
type TimeGrouping int

const (
	GroupingWeekly TimeGrouping = iota
	GroupingDaily
	GroupingMonthly
)

// String method for TimeGrouping enum
func (g TimeGrouping) String() string {
	switch g {
	case GroupingDaily:
		return "DAILY"
	case GroupingWeekly:
		return "WEEKLY"
	case GroupingMonthly:
		return "MONTHLY"
	default:
		return "Unknown"
	}
}

// ParseTimeGrouping parses a user-supplied grouping selector. Matching is
// case-insensitive; blank or unrecognized input falls back to WEEKLY.
func ParseTimeGrouping(s string) TimeGrouping {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DAILY":
		return GroupingDaily
	case "MONTHLY":
		return GroupingMonthly
	default:
		return GroupingWeekly
	}
}
