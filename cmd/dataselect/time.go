package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are the calendar-date formats -ts/-te and selection-file
// timestamps accept, tried in order. The year,day-of-year,time notation
// the original dataselect.c's libmseed time parser also accepts is not in
// this list; parseOrdinalTime handles it.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime parses a CLI or selection-file timestamp into UTC. An empty
// string means "unbounded" and returns the zero time.Time with no error.
func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	if t, ok := parseOrdinalTime(raw); ok {
		return t, nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// parseOrdinalTime parses the "YYYY,DDD[,HH:MM:SS[.ffffff]]" form.
func parseOrdinalTime(raw string) (time.Time, bool) {
	parts := strings.SplitN(raw, ",", 3)
	if len(parts) < 2 {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return time.Time{}, false
	}
	yday, err := strconv.Atoi(parts[1])
	if err != nil || yday < 1 || yday > 366 {
		return time.Time{}, false
	}

	base := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, yday-1)
	if len(parts) == 2 || parts[2] == "" {
		return base, true
	}

	clock := parts[2]
	var h, m int
	var s float64
	if _, err := fmt.Sscanf(clock, "%d:%d:%f", &h, &m, &s); err != nil {
		return time.Time{}, false
	}
	secs := int(s)
	nanos := int(math.Round((s - float64(secs)) * 1e9))
	return base.Add(time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(secs)*time.Second +
		time.Duration(nanos)), true
}
