package builtin

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dashgrid/internal/widget"
)

// SysInfo shows host facts: name, platform, CPU count, and on Linux the
// load average and memory headroom read from /proc.
type SysInfo struct {
	widget.Base
	hostname string
}

// NewSysInfo builds the system info widget.
func NewSysInfo(env widget.Env) (widget.Contract, error) {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return &SysInfo{Base: widget.NewBase(env), hostname: host}, nil
}

func (w *SysInfo) Render(s widget.Surface) (string, error) {
	lines := []string{
		s.Theme.Title().Render(w.hostname),
		s.Theme.Text().Render(fmt.Sprintf("%s/%s, %d cpus", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())),
	}
	if load, ok := readLoadAvg(); ok {
		lines = append(lines, s.Theme.Text().Render("load "+load))
	}
	if mem, ok := readMemAvailable(); ok {
		lines = append(lines, s.Theme.Text().Render("mem free "+mem))
	}
	if len(lines) > s.Height && s.Height > 0 {
		lines = lines[:s.Height]
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...), nil
}

// readLoadAvg returns the three load averages from /proc/loadavg.
func readLoadAvg() (string, bool) {
	raw, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return "", false
	}
	fields := strings.Fields(string(raw))
	if len(fields) < 3 {
		return "", false
	}
	return strings.Join(fields[:3], " "), true
}

// readMemAvailable returns MemAvailable from /proc/meminfo, humanized.
func readMemAvailable() (string, bool) {
	raw, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(raw), "\n") {
		if !strings.HasPrefix(line, "MemAvailable:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return "", false
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return "", false
		}
		return humanizeKB(kb), true
	}
	return "", false
}

func humanizeKB(kb int64) string {
	switch {
	case kb >= 1<<20:
		return fmt.Sprintf("%.1f GiB", float64(kb)/float64(1<<20))
	case kb >= 1<<10:
		return fmt.Sprintf("%.1f MiB", float64(kb)/float64(1<<10))
	default:
		return fmt.Sprintf("%d KiB", kb)
	}
}
