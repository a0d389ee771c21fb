// Package diagnostics collects a best-effort system snapshot for stuck-run
// reports, so an operator can tell an overloaded host from a genuinely
// deadlocked plan.
package diagnostics

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot is a point-in-time view of host health. Fields that could not be
// read stay at their zero value.
type Snapshot struct {
	Time       time.Time `json:"time"`
	CPUPercent float64   `json:"cpu_percent"`
	MemUsedMB  float64   `json:"mem_used_mb"`
	MemPercent float64   `json:"mem_percent"`
	LoadAvg1   float64   `json:"load_avg_1"`
	Goroutines int       `json:"goroutines"`
}

// Collect gathers a snapshot. Every probe is best effort; Collect never
// fails.
func Collect() Snapshot {
	snap := Snapshot{
		Time:       time.Now(),
		Goroutines: runtime.NumGoroutine(),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemUsedMB = float64(vm.Used) / 1024 / 1024
		snap.MemPercent = vm.UsedPercent
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		snap.CPUPercent = percents[0]
	}
	if avg, err := load.Avg(); err == nil {
		snap.LoadAvg1 = avg.Load1
	}
	return snap
}
