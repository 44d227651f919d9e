package sysinfo

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"agefetch/cache"
	"agefetch/logger"
)

type fakeKernel struct {
	release string
	err     error
	calls   int
}

func (f *fakeKernel) KernelRelease() (string, error) {
	f.calls++
	return f.release, f.err
}

func newTestGatherer(t *testing.T, c *cache.Cache, k KernelQuerier, now time.Time) *Gatherer {
	t.Helper()
	dir := t.TempDir()

	dpkg := fixture(t, dir, "dpkg.log", "2024-01-01 12:00:00 startup archives unpack\n")
	g := NewGatherer("alice", c, nil)
	g.Paths = Paths{
		Hostname:  fixture(t, dir, "hostname", "archbox\n"),
		OSRelease: fixture(t, dir, "os-release", sampleOSRelease),
		Uptime:    fixture(t, dir, "uptime", "3600.00 7000.00\n"),
		Meminfo:   fixture(t, dir, "meminfo", sampleMeminfo),
	}
	g.Kernel = k
	g.Age = testResolver(now, DebianPackageLog{dpkg})
	g.Now = func() time.Time { return now }
	return g
}

func TestGatherer_AllFacts(t *testing.T) {
	now := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	g := newTestGatherer(t, nil, &fakeKernel{release: "6.6.1-arch1-1"}, now)

	got := g.GetSystemInfo()
	want := SystemInfo{
		Username: "alice",
		Hostname: "archbox",
		OS:       "Arch Linux",
		Kernel:   "6.6.1-arch1-1",
		Uptime:   "1h 0m",
		OSAge:    "40d",
		Memory:   "8.00 GiB / 16.00 GiB",
	}
	if *got != want {
		t.Errorf("GetSystemInfo() = %+v, want %+v", *got, want)
	}
}

func TestGatherer_EverythingMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	g := NewGatherer("", nil, nil)
	g.Paths = Paths{Hostname: missing, OSRelease: missing, Uptime: missing, Meminfo: missing}
	g.Kernel = KernelFunc(func() (string, error) { return "", errors.New("no uname") })
	g.Age = testResolver(time.Now(), PackageManagerLog{missing}, DebianPackageLog{missing}, InstallerLog{missing})

	got := g.GetSystemInfo()
	for name, v := range map[string]string{
		"Username": got.Username,
		"Hostname": got.Hostname,
		"OS":       got.OS,
		"Kernel":   got.Kernel,
		"Uptime":   got.Uptime,
		"OSAge":    got.OSAge,
		"Memory":   got.Memory,
	} {
		if v != Unknown {
			t.Errorf("%s = %q, want %q", name, v, Unknown)
		}
	}
}

func TestGatherer_ReadThroughCache(t *testing.T) {
	now := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	c := cache.New(filepath.Join(t.TempDir(), "agefetch"), nil)
	c.Now = func() time.Time { return now }
	k := &fakeKernel{release: "6.6.1-arch1-1"}
	g := newTestGatherer(t, c, k, now)

	first := g.GetSystemInfo()
	if first.FromCache {
		t.Fatal("first run should miss the cache")
	}

	// a changed kernel must not be seen while the record is fresh
	k.release = "6.7.0-arch1-1"
	second := g.GetSystemInfo()
	if !second.FromCache {
		t.Fatal("second run should hit the cache")
	}
	if second.Kernel != "6.6.1-arch1-1" {
		t.Errorf("cached Kernel = %q, want first run's value", second.Kernel)
	}
	if k.calls != 1 {
		t.Errorf("kernel queried %d times, want 1", k.calls)
	}
	if second.Uptime != "1h 0m" || second.Memory != "8.00 GiB / 16.00 GiB" {
		t.Errorf("live facts = %q, %q; want them recomputed", second.Uptime, second.Memory)
	}

	// past the TTL the record is ignored and rewritten
	later := now.Add(cache.TTL + time.Minute)
	c.Now = func() time.Time { return later }
	g.Now = func() time.Time { return later }
	third := g.GetSystemInfo()
	if third.FromCache {
		t.Fatal("run after TTL should miss the cache")
	}
	if third.Kernel != "6.7.0-arch1-1" {
		t.Errorf("Kernel after expiry = %q, want recomputed value", third.Kernel)
	}
	rec, ok := c.Load()
	if !ok || rec.Kernel != "6.7.0-arch1-1" {
		t.Errorf("cache after expiry = %+v, %v; want rewritten record", rec, ok)
	}
}

func TestGatherer_LogsUptimeDuration(t *testing.T) {
	now := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	g := newTestGatherer(t, nil, &fakeKernel{release: "6.6.1-arch1-1"}, now)
	core, logs := observer.New(zapcore.DebugLevel)
	g.Log = logger.Wrap(zap.New(core))

	g.GetSystemInfo()

	entries := logs.FilterMessage("uptime read").All()
	if len(entries) != 1 {
		t.Fatalf("got %d uptime entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["uptime"]; got != time.Hour {
		t.Errorf("uptime field = %v, want %v", got, time.Hour)
	}
}
