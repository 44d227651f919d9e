// Package sysinfo - readers for /etc and /proc facts
package sysinfo

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Paths locates the files facts are read from. Tests point these at fixtures.
type Paths struct {
	Hostname  string
	OSRelease string
	Uptime    string
	Meminfo   string
}

// DefaultPaths returns the standard Linux locations.
func DefaultPaths() Paths {
	return Paths{
		Hostname:  "/etc/hostname",
		OSRelease: "/etc/os-release",
		Uptime:    "/proc/uptime",
		Meminfo:   "/proc/meminfo",
	}
}

// readHostname returns the trimmed contents of the hostname file.
func readHostname(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// readOSName returns PRETTY_NAME from an os-release file.
func readOSName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	name, ok := parseOSRelease(string(b))
	if !ok {
		return "", fmt.Errorf("PRETTY_NAME not found in %s", path)
	}
	return name, nil
}

// parseOSRelease finds the PRETTY_NAME line and strips surrounding quotes.
func parseOSRelease(content string) (string, bool) {
	const prefix = "PRETTY_NAME="
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, prefix) {
			return strings.Trim(strings.TrimPrefix(line, prefix), `"`), true
		}
	}
	return "", false
}

// readUptime returns the seconds since boot from /proc/uptime.
func readUptime(path string) (float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return parseUptime(string(b))
}

// parseUptime reads the first whitespace-separated value of the first line.
// The second value (idle time) is ignored.
func parseUptime(content string) (float64, error) {
	line, _, _ := strings.Cut(content, "\n")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, errors.New("empty uptime")
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid uptime value %q: %w", fields[0], err)
	}
	if secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("invalid uptime value %q", fields[0])
	}
	return secs, nil
}

// readMeminfo returns MemTotal and MemAvailable in kilobytes.
func readMeminfo(path string) (total, available uint64, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}
	total, available = parseMeminfo(string(b))
	if total == 0 {
		return 0, 0, fmt.Errorf("MemTotal not found in %s", path)
	}
	return total, available, nil
}

// parseMeminfo scans for MemTotal and MemAvailable, stopping once both are seen.
// A missing or malformed value reads as zero.
func parseMeminfo(content string) (total, available uint64) {
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			total = kbValue(line)
		case strings.HasPrefix(line, "MemAvailable:"):
			available = kbValue(line)
		}
		if total > 0 && available > 0 {
			break
		}
	}
	return total, available
}

// kbValue returns the second whitespace token of a meminfo line, or 0.
func kbValue(line string) uint64 {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	v, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
