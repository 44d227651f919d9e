// Package sysinfo - install age resolution
package sysinfo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"agefetch/logger"
)

// naiveLayout is the timestamp layout shared by every supported log.
const naiveLayout = "2006-01-02 15:04:05"

// pacmanISOLayout is the bracketed layout written by pacman 5.2 and later.
const pacmanISOLayout = "2006-01-02T15:04:05-0700"

const secondsPerDay = 86400

// errNoTimestamp is returned when a log line carries no usable timestamp.
var errNoTimestamp = errors.New("no timestamp in first line")

// LogSource is a log file whose first entry dates the OS installation.
type LogSource interface {
	// Name identifies the source in diagnostics.
	Name() string

	// Path is the log file location.
	Path() string

	// Extract returns the timestamp substring of a first line, or false if
	// the line doesn't have the expected shape.
	Extract(line string) (string, bool)

	// Parse converts the extracted substring to a point in time.
	Parse(ts string) (time.Time, error)
}

// PackageManagerLog reads pacman-style lines: "[2021-03-04 10:11:12] [PACMAN] ...".
type PackageManagerLog struct{ File string }

func (PackageManagerLog) Name() string   { return "pacman" }
func (l PackageManagerLog) Path() string { return l.File }

// Extract returns the text between the first '[' and the first ']'.
func (PackageManagerLog) Extract(line string) (string, bool) {
	start := strings.IndexByte(line, '[')
	end := strings.IndexByte(line, ']')
	if start < 0 || end < 0 || end <= start {
		return "", false
	}
	return line[start+1 : end], true
}

// Parse accepts both the naive layout and the ISO-8601 offset form.
func (PackageManagerLog) Parse(ts string) (time.Time, error) {
	t, err := parseNaive(ts)
	if err == nil {
		return t, nil
	}
	if iso, isoErr := time.Parse(pacmanISOLayout, ts); isoErr == nil {
		return iso, nil
	}
	return time.Time{}, err
}

// DebianPackageLog reads dpkg-style lines: "2021-03-04 10:11:12 startup archives unpack".
type DebianPackageLog struct{ File string }

func (DebianPackageLog) Name() string   { return "dpkg" }
func (l DebianPackageLog) Path() string { return l.File }

// Extract returns the first 19 bytes of the line.
func (DebianPackageLog) Extract(line string) (string, bool) {
	if len(line) < len(naiveLayout) {
		return "", false
	}
	return line[:len(naiveLayout)], true
}

func (DebianPackageLog) Parse(ts string) (time.Time, error) { return parseNaive(ts) }

// InstallerLog reads debian-installer lines: "2021-03-04 10:11:12 main-menu: INFO: ...".
type InstallerLog struct{ File string }

func (InstallerLog) Name() string   { return "installer" }
func (l InstallerLog) Path() string { return l.File }

// Extract joins the first two whitespace-separated tokens with a single space.
func (InstallerLog) Extract(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", false
	}
	return fields[0] + " " + fields[1], true
}

func (InstallerLog) Parse(ts string) (time.Time, error) { return parseNaive(ts) }

// DefaultLogSources returns the sources in priority order.
func DefaultLogSources() []LogSource {
	return []LogSource{
		PackageManagerLog{File: "/var/log/pacman.log"},
		DebianPackageLog{File: "/var/log/dpkg.log"},
		InstallerLog{File: "/var/log/installer/install.log"},
	}
}

// parseNaive reads a timezone-less timestamp as UTC.
func parseNaive(ts string) (time.Time, error) {
	return time.Parse(naiveLayout, ts)
}

// AgeResolver estimates how long ago the OS was installed.
type AgeResolver struct {
	// Sources are tried in order; the first usable timestamp wins.
	Sources []LogSource

	// Root is the path whose birth time is the last-resort estimate.
	Root string

	// BirthTime reports a path's creation time; see birthtime_*.go.
	BirthTime func(path string) (time.Time, error)

	// Now is the reference clock.
	Now func() time.Time

	Log logger.Logger
}

// NewAgeResolver returns a resolver over the default log sources and "/".
func NewAgeResolver(log logger.Logger) *AgeResolver {
	if log == nil {
		log = logger.Nop()
	}
	return &AgeResolver{
		Sources:   DefaultLogSources(),
		Root:      "/",
		BirthTime: birthTime,
		Now:       time.Now,
		Log:       log,
	}
}

// Resolve returns the install age as "Xy Yd" or "Xd", or "Unknown" when no
// log source and no filesystem metadata yields a timestamp.
func (r *AgeResolver) Resolve() string {
	installed, ok := r.InstallTime()
	if !ok {
		return Unknown
	}
	return FormatAge(ElapsedDays(r.Now(), installed))
}

// InstallTime returns the best install timestamp estimate.
func (r *AgeResolver) InstallTime() (time.Time, bool) {
	for _, src := range r.Sources {
		t, err := fromLog(src)
		if err != nil {
			r.log().Debug("install log skipped",
				logger.String("source", src.Name()),
				logger.String("path", src.Path()),
				logger.Error(err))
			continue
		}
		r.log().Debug("install time from log",
			logger.String("source", src.Name()),
			logger.Time("installed", t))
		return t, true
	}

	if r.BirthTime == nil {
		return time.Time{}, false
	}
	t, err := r.BirthTime(r.Root)
	if err != nil {
		r.log().Debug("root birth time unavailable", logger.String("path", r.Root), logger.Error(err))
		return time.Time{}, false
	}
	r.log().Debug("install time from root birth time", logger.Time("installed", t))
	return t, true
}

func (r *AgeResolver) log() logger.Logger {
	if r.Log == nil {
		return logger.Nop()
	}
	return r.Log
}

// fromLog reads the first line of src and parses its timestamp.
func fromLog(src LogSource) (time.Time, error) {
	line, err := firstLine(src.Path())
	if err != nil {
		return time.Time{}, err
	}
	if strings.TrimSpace(line) == "" {
		return time.Time{}, errors.New("empty first line")
	}

	ts, ok := src.Extract(line)
	if !ok {
		return time.Time{}, errNoTimestamp
	}
	t, err := src.Parse(ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", ts, err)
	}
	return t, nil
}

// firstLine returns the first line of path without its line terminator.
func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// ReadString has no line length limit, unlike bufio.Scanner.
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// ElapsedDays returns whole days between installed and now, clamped at zero
// when installed lies in the future.
func ElapsedDays(now, installed time.Time) int64 {
	secs := now.Unix() - installed.Unix()
	if secs < 0 {
		return 0
	}
	return secs / secondsPerDay
}

// FormatAge renders a day count as "Xy Yd" from 365 days on, else "Xd".
// Years are a flat 365 days; leap days are not accounted for.
func FormatAge(days int64) string {
	if days >= 365 {
		return fmt.Sprintf("%dy %dd", days/365, days%365)
	}
	return fmt.Sprintf("%dd", days)
}
