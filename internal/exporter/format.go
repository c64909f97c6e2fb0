package exporter

import (
	"fmt"
	"strconv"
	"strings"
)

// formatInt formats an integer series value
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatShare formats a share fraction with four decimals
func formatShare(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// formatPercent renders a share fraction as a percentage like "12.34%"
func formatPercent(f float64) string {
	return fmt.Sprintf("%.2f%%", f*100)
}

// formatPyFloat renders f the way the console summary shows floats: shortest form, always with a decimal point
func formatPyFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// quoteKey quotes a city name for the console summary
func quoteKey(s string) string {
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
