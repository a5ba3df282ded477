package metrics

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatTokens renders a token count compactly: 950, 1.5K, 2.3M.
func FormatTokens(tokens int64) string {
	switch {
	case tokens >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(tokens)/1_000_000)
	case tokens >= 1_000:
		return fmt.Sprintf("%.1fK", float64(tokens)/1_000)
	case tokens <= 0:
		return "0"
	default:
		return fmt.Sprintf("%d", tokens)
	}
}

// FormatExecutionTime renders a duration in seconds as "3m 20s" or "45s".
func FormatExecutionTime(seconds float64) string {
	if seconds <= 0 {
		return "0 min"
	}
	total := int(math.Floor(seconds))
	minutes := total / 60
	remaining := total % 60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, remaining)
	}
	return fmt.Sprintf("%ds", remaining)
}

// FormatTimeAgo renders how long ago t was relative to now.
func FormatTimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	hours := int(math.Round(now.Sub(t).Hours()))
	switch {
	case hours < 1:
		return "Less than an hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := int(math.Round(float64(hours) / 24))
		return fmt.Sprintf("%d days ago", days)
	}
}

// ParseTimestamp parses a service timestamp, accepting RFC 3339 with or
// without fractional seconds. The zero time is returned for anything
// else so callers render "Unknown" instead of failing.
func ParseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Truncate shortens s to max characters, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
