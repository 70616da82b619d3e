package util

import (
    "strconv"
    "time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// AlignFromTo rounds the time range to bucket boundaries for the interval.
func AlignFromTo(from, to time.Time, iv string) (time.Time, time.Time) {
    switch iv {
    case "1H":
        from = from.Truncate(time.Hour)
        to = to.Truncate(time.Hour)
    case "4H":
        d := time.Duration(4) * time.Hour
        from = from.Truncate(d)
        to = to.Truncate(d)
    case "1D":
        d := time.Duration(24) * time.Hour
        from = from.Truncate(d)
        to = to.Truncate(d)
    default:
        from = from.Truncate(time.Hour)
        to = to.Truncate(time.Hour)
    }
    return from, to
}

// No extra helpers here; use strconv where needed.