// Package format renders wallet figures for the dashboard and the CLI.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rovshanmuradov/copytrade-dashboard/internal/domain"
)

// Risk colors.
var (
	RiskLowColor     = lipgloss.Color("#4ADE80")
	RiskMediumColor  = lipgloss.Color("#FACC15")
	RiskHighColor    = lipgloss.Color("#F87171")
	RiskUnknownColor = lipgloss.Color("#9CA3AF")
)

// Currency formats v as USD with grouping and two decimals: 1234.5 -> "$1,234.50".
func Currency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	// round before grouping so 0.005 behaves like the browser formatter
	v = roundHalfAway(v, 2)
	if v == 0 {
		sign = ""
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", v)
}

// Number groups thousands and keeps up to three decimals: 1234.5678 -> "1,234.568".
func Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return humanize.Commaf(roundHalfAway(v, 3))
}

// Int groups an integer: 12345 -> "12,345".
func Int(v int) string {
	return humanize.Comma(int64(v))
}

// Percent formats v with the given decimals and a trailing "%".
func Percent(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(roundHalfAway(v, decimals), 'f', decimals, 64) + "%"
}

// Signed prefixes positive values with "+", used for trend deltas.
func Signed(v float64, decimals int) string {
	s := Percent(v, decimals)
	if v > 0 {
		return "+" + s
	}
	return s
}

// TimeAgo renders the long relative form: "45 seconds ago", "3 hours ago".
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	n, unit := bucket(t, now)
	return fmt.Sprintf("%d %s ago", n, unit)
}

// TimeAgoShort renders the compact relative form: "45s ago", "3h ago".
func TimeAgoShort(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	n, unit := bucket(t, now)
	return fmt.Sprintf("%d%s ago", n, unit[:1])
}

// bucket floors the elapsed seconds into the 60/3600/86400 boundaries.
// Timestamps in the future count as zero seconds.
func bucket(t, now time.Time) (int64, string) {
	diff := int64(math.Floor(now.Sub(t).Seconds()))
	if diff < 0 {
		diff = 0
	}
	switch {
	case diff < 60:
		return diff, "seconds"
	case diff < 3600:
		return diff / 60, "minutes"
	case diff < 86400:
		return diff / 3600, "hours"
	default:
		return diff / 86400, "days"
	}
}

// HoldTime renders an average hold time given in hours: 30 -> "1.3d",
// 2.5 -> "2.5h", 0.5 -> "30m".
func HoldTime(hours float64) string {
	if math.IsNaN(hours) || hours < 0 {
		hours = 0
	}
	switch {
	case hours >= 24:
		return strconv.FormatFloat(roundHalfAway(hours/24, 1), 'f', 1, 64) + "d"
	case hours >= 1:
		return strconv.FormatFloat(roundHalfAway(hours, 1), 'f', 1, 64) + "h"
	default:
		return strconv.FormatFloat(roundHalfAway(hours*60, 0), 'f', 0, 64) + "m"
	}
}

// RiskColor maps a rating to its display color; unknown ratings are gray.
func RiskColor(r domain.RiskRating) lipgloss.Color {
	switch r {
	case domain.RiskLow:
		return RiskLowColor
	case domain.RiskMedium:
		return RiskMediumColor
	case domain.RiskHigh:
		return RiskHighColor
	default:
		return RiskUnknownColor
	}
}

// ShortAddress keeps the first and last four characters: "7xKX...gAsU".
func ShortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:4] + "..." + addr[len(addr)-4:]
}

// Placeholder returns s or a dash for empty strings.
func Placeholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func roundHalfAway(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
