package system

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// HostStats is a point-in-time picture of the host and process, reported by
// the sync server's health endpoint.
type HostStats struct {
	CPUPercent     float64 `json:"cpuPercent"`
	MemUsedPercent float64 `json:"memUsedPercent"`
	ProcessRSSMB   float64 `json:"processRssMb"`
	Goroutines     int     `json:"goroutines"`
	UptimeSeconds  float64 `json:"uptimeSeconds"`
}

var startTime = time.Now()

// CollectStats gathers host and process stats. Metrics that cannot be read
// on the current platform are left at zero rather than failing the health
// check.
func CollectStats() HostStats {
	stats := HostStats{
		Goroutines:    runtime.NumGoroutine(),
		UptimeSeconds: time.Since(startTime).Seconds(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemUsedPercent = vm.UsedPercent
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil && info != nil {
			stats.ProcessRSSMB = float64(info.RSS) / (1024 * 1024)
		}
	}

	return stats
}
