//go:build linux
// +build linux

package sysinfo

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// birthTime returns the creation time of path using statx(2). Filesystems
// that don't record a birth time leave STATX_BTIME out of the returned mask.
func birthTime(path string) (time.Time, error) {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx); err != nil {
		return time.Time{}, err
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, errors.New("birth time not recorded by filesystem")
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), nil
}
