// Package system reports host and process statistics for the health endpoint.
package system

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a point-in-time view of the host and this process.
// Fields that cannot be read on the current platform are left zero.
type Stats struct {
	Hostname       string  `json:"hostname"`
	Platform       string  `json:"platform"`
	HostUptimeSecs uint64  `json:"host_uptime_seconds"`
	MemoryPercent  float64 `json:"memory_percent"`
	LoadAvg1       float64 `json:"load_avg_1"`
	ProcessRSS     uint64  `json:"process_rss_bytes"`
	ProcessThreads int32   `json:"process_threads"`
	Goroutines     int     `json:"goroutines"`
}

// GetStats collects system statistics. It never fails; unreadable values
// are skipped.
func GetStats() Stats {
	stats := Stats{
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		Goroutines: runtime.NumGoroutine(),
	}

	if hostname, err := os.Hostname(); err == nil {
		stats.Hostname = hostname
	}

	if uptime, err := host.Uptime(); err == nil {
		stats.HostUptimeSecs = uptime
	}

	if memInfo, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = memInfo.UsedPercent
	}

	if loadInfo, err := load.Avg(); err == nil {
		stats.LoadAvg1 = loadInfo.Load1
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if memInfo, err := proc.MemoryInfo(); err == nil {
			stats.ProcessRSS = memInfo.RSS
		}
		if threads, err := proc.NumThreads(); err == nil {
			stats.ProcessThreads = threads
		}
	}

	return stats
}

// FormatUptime converts a duration to human-readable format (e.g., "2d 5h 30m 15s")
func FormatUptime(d time.Duration) string {
	seconds := uint64(d.Seconds())
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", secs))

	return strings.Join(parts, " ")
}
