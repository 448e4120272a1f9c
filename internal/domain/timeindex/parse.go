package timeindex

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// hourRangePattern captures the start of "11:00 am - 12:00 pm". Minutes
	// are matched but not captured; ranges always start on the hour.
	hourRangePattern = regexp.MustCompile(`(?i)(\d{1,2}):\d{2}\s*([ap])\.?m`)

	// columnDatePattern captures "January 18" from "...[Monday, January 18]".
	columnDatePattern = regexp.MustCompile(`\[[^\]]*?([A-Za-z]+)\s+(\d{1,2})\s*\]`)
)

// ParseHourRange returns the 24-hour start hour of a range such as
// "11:00 am - 12:00 pm".
func ParseHourRange(s string) (int, error) {
	m := hourRangePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: hour range %q", ErrMalformedInput, s)
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("%w: hour range %q", ErrMalformedInput, s)
	}
	pm := strings.EqualFold(m[2], "p")
	switch {
	case pm && hour != 12:
		hour += 12
	case !pm && hour == 12:
		hour = 0
	}
	return hour, nil
}

// ParseHourRanges splits a comma-separated availability cell into start
// hours, skipping empty entries.
func ParseHourRanges(cell string) ([]int, error) {
	var hours []int
	for _, part := range strings.Split(cell, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		h, err := ParseHourRange(part)
		if err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	return hours, nil
}

// HourRangeLabel renders the hour range starting at hour in the form's
// "11:00 am - 12:00 pm" style.
func HourRangeLabel(hour int) string {
	return clock12(hour) + " - " + clock12(hour+1)
}

func clock12(hour int) string {
	hour %= 24
	suffix := "am"
	if hour >= 12 {
		suffix = "pm"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:00 %s", h, suffix)
}

// ParseColumnDate extracts the date named inside the trailing brackets of
// an availability column label, e.g. "... [Monday, January 18]".
func ParseColumnDate(label string, year int) (time.Time, error) {
	m := columnDatePattern.FindStringSubmatch(label)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: column label %q", ErrMalformedInput, label)
	}
	month, err := time.Parse("January", m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q in %q", ErrMalformedInput, m[1], label)
	}
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q in %q", ErrMalformedInput, m[2], label)
	}
	t := time.Date(year, month.Month(), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: no day %d in %s", ErrMalformedInput, day, month.Month())
	}
	return t, nil
}
