// Package sysinfo - Formatting utilities
package sysinfo

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
)

const kbPerGiB = 1024 * 1024

// FormatUptime renders seconds since boot as "Xd Yh Zm", "Yh Zm" or "Zm",
// dropping leading zero units.
//
// Example: FormatUptime(90000) returns "1d 1h 0m"
func FormatUptime(seconds float64) string {
	days := uint64(math.Floor(seconds / 86400))
	hours := uint64(math.Floor(math.Mod(seconds, 86400) / 3600))
	minutes := uint64(math.Floor(math.Mod(seconds, 3600) / 60))

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// FormatMemory renders used/total memory given MemTotal and MemAvailable in
// kilobytes. Used memory never goes below zero.
//
// Example: FormatMemory(16777216, 8388608) returns "8.00 GiB / 16.00 GiB"
func FormatMemory(totalKB, availableKB uint64) string {
	var used uint64
	if totalKB > availableKB {
		used = totalKB - availableKB
	}
	return fmt.Sprintf("%.2f GiB / %.2f GiB", kbToGiB(used), kbToGiB(totalKB))
}

func kbToGiB(kb uint64) float64 {
	return float64(kb) / kbPerGiB
}

// PadRight pads a string with spaces to reach a minimum display width.
// Wide runes count as two columns.
//
// Example: PadRight("Hi", 5) returns "Hi   "
func PadRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
