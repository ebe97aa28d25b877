package constants

import "time"

const (
	// DateLayout is the calendar-date format used for assigned dates and
	// rollover bookkeeping. Date-only, no time component, so comparisons
	// never drift across timezones.
	DateLayout = "2006-01-02"
	// TimestampLayout is the display format recorded as the last rollover
	// time. It is for humans, never parsed back.
	TimestampLayout = "Jan 2, 2006 3:04 PM"
	// DefaultProjectName is the project seeded into a fresh store.
	DefaultProjectName = "My Tasks"
	// RolloverCheckInterval is how often the TUI compares the stored
	// rollover date against the current day. Rollover fires within one
	// interval of midnight; the latency only delays when a stale task
	// visually moves to today.
	RolloverCheckInterval = time.Minute
)
