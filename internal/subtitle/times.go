package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
)

// Timestamp converters. Each pair is a pure inverse: timeToMs(msToTime(x))
// == x for any non-negative day-scale millisecond value, except ASS, whose
// on-disk resolution is centiseconds — there the property holds for
// centisecond-aligned values, and parsed files always round-trip exactly.

var (
	srtTimePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})$`)
	vttTimePattern = regexp.MustCompile(`^(?:(\d{1,2}):)?(\d{2}):(\d{2})\.(\d{3})$`)
	assTimePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})\.(\d{2})$`)
)

func atoi64(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

// SRTTimeToMs parses "HH:MM:SS,mmm". A dot decimal separator is tolerated
// since slightly malformed SRT files use it.
func SRTTimeToMs(ts string) (int64, error) {
	m := srtTimePattern.FindStringSubmatch(ts)
	if m == nil {
		return 0, fmt.Errorf("invalid SRT timestamp: %q", ts)
	}
	frac := m[4]
	for len(frac) < 3 {
		frac += "0"
	}
	return atoi64(m[1])*3600000 + atoi64(m[2])*60000 + atoi64(m[3])*1000 + atoi64(frac), nil
}

// MsToSRTTime formats milliseconds as "HH:MM:SS,mmm".
func MsToSRTTime(ms int64) string {
	h := ms / 3600000
	m := ms % 3600000 / 60000
	s := ms % 60000 / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

// VTTTimeToMs parses "MM:SS.mmm" or "HH:MM:SS.mmm".
func VTTTimeToMs(ts string) (int64, error) {
	m := vttTimePattern.FindStringSubmatch(ts)
	if m == nil {
		return 0, fmt.Errorf("invalid WebVTT timestamp: %q", ts)
	}
	var hours int64
	if m[1] != "" {
		hours = atoi64(m[1])
	}
	return hours*3600000 + atoi64(m[2])*60000 + atoi64(m[3])*1000 + atoi64(m[4]), nil
}

// MsToVTTTime formats milliseconds as "HH:MM:SS.mmm".
func MsToVTTTime(ms int64) string {
	h := ms / 3600000
	m := ms % 3600000 / 60000
	s := ms % 60000 / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}

// ASSTimeToMs parses "H:MM:SS.cc" (centiseconds).
func ASSTimeToMs(ts string) (int64, error) {
	m := assTimePattern.FindStringSubmatch(ts)
	if m == nil {
		return 0, fmt.Errorf("invalid ASS timestamp: %q", ts)
	}
	return atoi64(m[1])*3600000 + atoi64(m[2])*60000 + atoi64(m[3])*1000 + atoi64(m[4])*10, nil
}

// MsToASSTime formats milliseconds as "H:MM:SS.cc", truncating to
// centisecond resolution.
func MsToASSTime(ms int64) string {
	h := ms / 3600000
	m := ms % 3600000 / 60000
	s := ms % 60000 / 1000
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, ms%1000/10)
}
