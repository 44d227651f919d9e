// Package sysinfo - kernel release lookup
package sysinfo

import (
	"errors"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// KernelQuerier reports the running kernel's release string.
type KernelQuerier interface {
	KernelRelease() (string, error)
}

// execCommand is initialized to exec.Command. It is intended to be overridden in tests.
var execCommand = exec.Command

// UnameQuerier asks `uname -r`.
type UnameQuerier struct{}

func (UnameQuerier) KernelRelease() (string, error) {
	out, err := execCommand("uname", "-r").Output()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) {
		return "", errors.New("uname output is not valid UTF-8")
	}
	release := strings.TrimSpace(string(out))
	if release == "" {
		return "", errors.New("uname printed nothing")
	}
	return release, nil
}

// KernelFunc adapts a plain function to KernelQuerier.
type KernelFunc func() (string, error)

func (f KernelFunc) KernelRelease() (string, error) { return f() }
