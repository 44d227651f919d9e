// Package cache persists the slow-to-compute facts (hostname, kernel, OS name
// and install age) between runs so agefetch can skip recomputing them for an
// hour.
//
// The record is a plain five-line text file:
//
//	<unix_timestamp>
//	hostname=<value>
//	kernel=<value>
//	os_name=<value>
//	os_age=<value>
//
// Loading never fails the caller: a missing, corrupt or expired record is a miss.
package cache

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"agefetch/logger"
)

// TTL is how long a record is trusted after capture.
const TTL = time.Hour

// FileName is the record's name inside the cache directory.
const FileName = "facts"

// field keys in their required order
var keys = []string{"hostname", "kernel", "os_name", "os_age"}

var errTruncated = errors.New("record truncated")

// Record is a snapshot of the cached facts.
type Record struct {
	CapturedAt time.Time
	Hostname   string
	Kernel     string
	OSName     string
	OSAge      string
}

// Fresh reports whether the record can still be trusted at now.
func (r *Record) Fresh(now time.Time) bool {
	return now.Unix() <= r.CapturedAt.Unix()+int64(TTL/time.Second)
}

// Marshal encodes the record in the five-line format.
func (r *Record) Marshal() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%d\n", r.CapturedAt.Unix())
	for i, v := range r.values() {
		fmt.Fprintf(&b, "%s=%s\n", keys[i], v)
	}
	return b.Bytes()
}

func (r *Record) values() []string {
	return []string{r.Hostname, r.Kernel, r.OSName, r.OSAge}
}

// Parse decodes a record. Lines past the fifth are ignored.
func Parse(data []byte) (*Record, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))

	if !sc.Scan() {
		return nil, errTruncated
	}
	ts, err := strconv.ParseUint(strings.TrimSpace(sc.Text()), 10, 63)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %w", err)
	}

	vals := make([]string, 0, len(keys))
	for _, key := range keys {
		if !sc.Scan() {
			return nil, errTruncated
		}
		prefix := key + "="
		line := sc.Text()
		if !strings.HasPrefix(line, prefix) {
			return nil, fmt.Errorf("line %d: expected %q prefix", len(vals)+2, prefix)
		}
		vals = append(vals, strings.TrimPrefix(line, prefix))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return &Record{
		CapturedAt: time.Unix(int64(ts), 0),
		Hostname:   vals[0],
		Kernel:     vals[1],
		OSName:     vals[2],
		OSAge:      vals[3],
	}, nil
}

// Cache reads and writes the record under a directory. A Cache with an empty
// directory is disabled: Load always misses and Store does nothing.
type Cache struct {
	dir string
	log logger.Logger

	// Now is the clock used for expiry; tests replace it.
	Now func() time.Time
}

// New returns a Cache rooted at dir; an empty dir disables it.
func New(dir string, log logger.Logger) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	return &Cache{dir: dir, log: log, Now: time.Now}
}

// Enabled reports whether a cache directory was resolved.
func (c *Cache) Enabled() bool { return c != nil && c.dir != "" }

// Path returns the record file path, or "" when disabled.
func (c *Cache) Path() string {
	if !c.Enabled() {
		return ""
	}
	return filepath.Join(c.dir, FileName)
}

// Load returns the stored record if it exists, parses and has not expired.
func (c *Cache) Load() (*Record, bool) {
	if !c.Enabled() {
		return nil, false
	}

	data, err := os.ReadFile(c.Path())
	if err != nil {
		c.log.Debug("cache miss: unreadable", logger.String("path", c.Path()), logger.Error(err))
		return nil, false
	}
	rec, err := Parse(data)
	if err != nil {
		c.log.Debug("cache miss: corrupt record", logger.String("path", c.Path()), logger.Error(err))
		return nil, false
	}
	if !rec.Fresh(c.Now()) {
		c.log.Debug("cache miss: expired", logger.Time("captured_at", rec.CapturedAt))
		return nil, false
	}
	return rec, true
}

// Store replaces the record. Failures are logged and otherwise ignored: the
// next run simply recomputes.
func (c *Cache) Store(rec *Record) {
	if !c.Enabled() {
		return
	}
	if err := c.write(rec.Marshal()); err != nil {
		c.log.Debug("cache write failed", logger.String("path", c.Path()), logger.Error(err))
	}
}

// write lands data via a temp file and rename so readers never see a partial record.
func (c *Cache) write(data []byte) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, c.Path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace record: %w", err)
	}
	return nil
}
