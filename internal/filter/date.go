package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Window names a recency filter mode for posting dates.
type Window string

const (
	WindowAll     Window = "all"
	Window24Hours Window = "24hours"
	Window7Days   Window = "7days"
	Window30Days  Window = "30days"
)

// ParseWindow maps a config string onto a Window, defaulting to all.
func ParseWindow(s string) Window {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "24hours", "24h", "day":
		return Window24Hours
	case "7days", "7d", "week":
		return Window7Days
	case "30days", "30d", "month":
		return Window30Days
	default:
		return WindowAll
	}
}

func (w Window) maxAge() (time.Duration, bool) {
	switch w {
	case Window24Hours:
		return 24 * time.Hour, true
	case Window7Days:
		return 7 * 24 * time.Hour, true
	case Window30Days:
		return 30 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

var (
	minutesAgoRe = regexp.MustCompile(`(?i)(\d+)\s*(?:minute|min)s?\s*ago`)
	hoursAgoRe   = regexp.MustCompile(`(?i)(\d+)\s*(?:hour|hr)s?\s*ago`)
	daysAgoRe    = regexp.MustCompile(`(?i)(\d+)\s*days?\s*ago`)
	weeksAgoRe   = regexp.MustCompile(`(?i)(\d+)\s*weeks?\s*ago`)
	monthsAgoRe  = regexp.MustCompile(`(?i)(\d+)\s*months?\s*ago`)
	isoDateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	monthDayRe   = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+(\d{1,2}),?\s+(\d{4})`)
)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Include reports whether a posting whose date text is dateStr falls inside
// the window. Unparseable text is always included: silently dropping a
// likely-relevant posting over an ambiguous date string is the worse failure
// mode, so the filter fails open.
func Include(dateStr string, w Window) bool {
	maxAge, bounded := w.maxAge()
	if !bounded {
		return true
	}
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return true
	}

	age, ok := parseAge(dateStr, time.Now())
	if !ok {
		return true
	}
	return age <= maxAge
}

// parseAge turns posting-date text into an age, trying tiers in order:
// relative minutes/hours, relative days/weeks/months, literal
// today/yesterday, then absolute dates (ISO and month-day-year).
func parseAge(s string, now time.Time) (time.Duration, bool) {
	if m := minutesAgoRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return time.Duration(n) * time.Minute, true
	}
	if m := hoursAgoRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return time.Duration(n) * time.Hour, true
	}
	if m := daysAgoRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return time.Duration(n) * 24 * time.Hour, true
	}
	if m := weeksAgoRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return time.Duration(n) * 7 * 24 * time.Hour, true
	}
	if m := monthsAgoRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return time.Duration(n) * 30 * 24 * time.Hour, true
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "just now") || strings.Contains(lower, "today") {
		return 0, true
	}
	if strings.Contains(lower, "yesterday") {
		return 24 * time.Hour, true
	}

	if isoDateRe.MatchString(s) {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return ageOf(now, t)
		}
	}
	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, monthIndex[strings.ToLower(m[1])], day, 0, 0, 0, 0, time.UTC)
		return ageOf(now, t)
	}

	return 0, false
}

func ageOf(now, posted time.Time) (time.Duration, bool) {
	// future dates beyond timezone skew are treated as unparseable
	age := now.Sub(posted)
	if age < -48*time.Hour {
		return 0, false
	}
	if age < 0 {
		age = 0
	}
	return age, true
}
