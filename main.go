// Package main provides the agefetch command-line tool, which prints a short
// colorized summary of the host: OS name, user, kernel, uptime, how long ago
// the OS was installed, and memory usage.
package main

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"agefetch/cache"
	"agefetch/config"
	"agefetch/logger"
	"agefetch/sysinfo"
)

// minRuleWidth is the separator length for short OS names.
const minRuleWidth = 39

// labelWidth aligns the colons after field labels.
const labelWidth = 12

// clearScreen erases the terminal and homes the cursor.
const clearScreen = "\x1b[2J\x1b[H"

// ansiRegex matches ANSI escape codes for removal/measurement purposes
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// main is the entry point for the agefetch application. The banner is always
// printed and the exit code is always 0; cobra errors are discarded.
func main() {
	_ = newRootCmd().Execute()
}

// newRootCmd builds the agefetch command. Flag parsing is disabled and any
// arguments are ignored.
func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agefetch",
		Short: "Print a colorized summary of this machine, including how old the OS install is",
		Long: `agefetch prints the OS name, user, kernel, uptime, install age and memory usage.

Install age is read from the first entry of the package manager or installer
logs (pacman, dpkg, debian-installer), falling back to the creation time of /.

Hostname, kernel, OS name and install age are cached for an hour under
$XDG_CACHE_HOME/agefetch (or ~/.cache/agefetch). Set AGEFETCH_DEBUG=1 to log
diagnostics to stderr.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Run: func(cmd *cobra.Command, args []string) {
			run(cmd.OutOrStdout())
		},
	}
}

// run gathers the facts and prints the banner to out.
func run(out io.Writer) {
	cfg := config.Load()
	log := logger.New(cfg.Debug)
	defer func() { _ = log.Sync() }()

	c := cache.New(cfg.CacheDir, log)
	if c.Enabled() {
		log.Debugf("cache record at %s", c.Path())
	} else {
		log.Debug("caching disabled: neither XDG_CACHE_HOME nor HOME is set")
	}
	g := sysinfo.NewGatherer(cfg.Username, c, log)
	info := g.GetSystemInfo()

	// Only wipe the screen for an interactive terminal; piped output stays clean.
	if writerIsTTY(out) {
		fmt.Fprint(out, clearScreen)
	}
	displayInfo(out, info)
}

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// field is one labeled banner line.
type field struct {
	color string
	label string
	value string
}

// displayInfo renders the banner: the OS name as a title, a separator rule,
// the five labeled fields and a closing rule.
//
// Parameters:
//   - w: Destination for the banner
//   - info: Pointer to SystemInfo struct containing all facts
func displayInfo(w io.Writer, info *sysinfo.SystemInfo) {
	title := "    " + colorize(info.OS, sysinfo.ColorOrange) + "  "
	rule := "   " + strings.Repeat("=", ruleWidth(title))

	fields := []field{
		{sysinfo.ColorGreen, "User", fmt.Sprintf("%s@%s", info.Username, info.Hostname)},
		{sysinfo.ColorSky, "Kernel", info.Kernel},
		{sysinfo.ColorPurple, "Uptime", info.Uptime},
		{sysinfo.ColorPink, "OS Age", info.OSAge},
		{sysinfo.ColorGreen, "Memory", info.Memory},
	}

	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintf(w, "%s\n\n", rule)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s  %s:%s %s\n", f.color, sysinfo.PadRight(f.label, labelWidth), sysinfo.ColorReset, f.value)
	}
	fmt.Fprintf(w, "\n%s\n\n", rule)
}

// ruleWidth sizes the separator so it never ends before the title does.
func ruleWidth(title string) int {
	if w := getVisibleWidth(title); w > minRuleWidth {
		return w
	}
	return minRuleWidth
}

// getVisibleWidth calculates the visible width of a string excluding ANSI escape codes.
//
// Parameters:
//   - s: The string to measure (may contain ANSI color codes)
//
// Returns:
//   - The number of visible columns (excluding ANSI escape sequences)
func getVisibleWidth(s string) int {
	// Remove all ANSI escape sequences
	stripped := ansiRegex.ReplaceAllString(s, "")
	// Use runewidth to count display width (handles wide runes)
	return runewidth.StringWidth(stripped)
}

// colorize wraps text with ANSI color codes for terminal output.
//
// Parameters:
//   - text: The string to be colorized
//   - color: ANSI color code (e.g., "\033[38;2;255;184;108m")
//
// Returns:
//   - A string with ANSI color codes applied, followed by a reset code
func colorize(text, color string) string {
	return color + text + sysinfo.ColorReset
}
