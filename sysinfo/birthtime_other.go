//go:build !linux
// +build !linux

package sysinfo

import (
	"errors"
	"time"
)

func birthTime(path string) (time.Time, error) {
	return time.Time{}, errors.New("birth time not supported on this platform")
}
