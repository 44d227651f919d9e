// Package sysinfo gathers the host facts shown in the agefetch banner.
// Every getter is best-effort: failures are logged at debug level and the
// fact reads "Unknown".
package sysinfo

import (
	"time"

	"agefetch/cache"
	"agefetch/logger"
)

// ANSI 24-bit foreground colors used by the banner
const (
	ColorReset  = "\033[0m"
	ColorOrange = "\033[38;2;255;184;108m"
	ColorGreen  = "\033[38;2;166;227;161m"
	ColorSky    = "\033[38;2;137;220;235m"
	ColorPurple = "\033[38;2;203;166;247m"
	ColorPink   = "\033[38;2;245;194;231m"
)

// Unknown replaces any fact that could not be determined.
const Unknown = "Unknown"

// SystemInfo holds the facts printed in the banner.
type SystemInfo struct {
	// Username is the current user's name
	Username string

	// Hostname is the machine's name from /etc/hostname
	Hostname string

	// OS is the distribution's pretty name
	OS string

	// Kernel is the kernel release
	Kernel string

	// Uptime is the formatted time since boot
	Uptime string

	// OSAge is the formatted time since installation
	OSAge string

	// Memory shows used/total RAM
	Memory string

	// FromCache reports whether Hostname, Kernel, OS and OSAge came from the cache
	FromCache bool
}

// Gatherer collects SystemInfo. Hostname, kernel, OS name and install age are
// read through Cache; uptime and memory are always read live.
type Gatherer struct {
	Username string
	Paths    Paths
	Kernel   KernelQuerier
	Age      *AgeResolver
	Cache    *cache.Cache
	Log      logger.Logger
	Now      func() time.Time
}

// NewGatherer returns a Gatherer wired to the real system. A nil or disabled
// cache makes every run recompute.
func NewGatherer(username string, c *cache.Cache, log logger.Logger) *Gatherer {
	if log == nil {
		log = logger.Nop()
	}
	return &Gatherer{
		Username: username,
		Paths:    DefaultPaths(),
		Kernel:   UnameQuerier{},
		Age:      NewAgeResolver(log),
		Cache:    c,
		Log:      log,
		Now:      time.Now,
	}
}

// GetSystemInfo retrieves all facts. It never fails.
func (g *Gatherer) GetSystemInfo() *SystemInfo {
	info := &SystemInfo{
		Username: g.Username,
		Uptime:   g.uptime(),
		Memory:   g.memory(),
	}
	if info.Username == "" {
		info.Username = Unknown
	}

	if rec, ok := g.Cache.Load(); ok {
		g.Log.Debug("facts served from cache", logger.Time("captured_at", rec.CapturedAt))
		info.Hostname = rec.Hostname
		info.Kernel = rec.Kernel
		info.OS = rec.OSName
		info.OSAge = rec.OSAge
		info.FromCache = true
		return info
	}

	info.Hostname = g.hostname()
	info.Kernel = g.kernel()
	info.OS = g.osName()
	info.OSAge = g.Age.Resolve()

	g.Cache.Store(&cache.Record{
		CapturedAt: g.Now(),
		Hostname:   info.Hostname,
		Kernel:     info.Kernel,
		OSName:     info.OS,
		OSAge:      info.OSAge,
	})
	return info
}

func (g *Gatherer) hostname() string {
	h, err := readHostname(g.Paths.Hostname)
	if err != nil {
		g.Log.Debug("hostname unavailable", logger.Error(err))
		return Unknown
	}
	return h
}

func (g *Gatherer) kernel() string {
	release, err := g.Kernel.KernelRelease()
	if err != nil {
		g.Log.Debug("kernel release unavailable", logger.Error(err))
		return Unknown
	}
	return release
}

func (g *Gatherer) osName() string {
	name, err := readOSName(g.Paths.OSRelease)
	if err != nil {
		g.Log.Debug("os name unavailable", logger.Error(err))
		return Unknown
	}
	return name
}

func (g *Gatherer) uptime() string {
	secs, err := readUptime(g.Paths.Uptime)
	if err != nil {
		g.Log.Debug("uptime unavailable", logger.Error(err))
		return Unknown
	}
	g.Log.Debug("uptime read", logger.Duration("uptime", time.Duration(secs*float64(time.Second))))
	return FormatUptime(secs)
}

func (g *Gatherer) memory() string {
	total, available, err := readMeminfo(g.Paths.Meminfo)
	if err != nil {
		g.Log.Debug("memory unavailable", logger.Error(err))
		return Unknown
	}
	return FormatMemory(total, available)
}
