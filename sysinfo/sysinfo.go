// Package sysinfo probes the host for the handful of facts the build driver
// needs: logical CPU count, total memory and the current load average.
package sysinfo

import (
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"
	"golang.org/x/sys/unix"
)

// Host describes the machine the build will run on.
type Host struct {
	CPUs       int
	MemTotalKB uint64
}

// Probe fills a Host from the running system. Probing is best-effort: the
// CPU count falls back to runtime.NumCPU and the memory total to sysinfo(2)
// before giving up (a zero MemTotalKB is caught by config validation).
func Probe() Host {
	h := Host{CPUs: runtime.NumCPU()}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		h.CPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm.Total > 0 {
		h.MemTotalKB = vm.Total / 1024
	} else {
		var si unix.Sysinfo_t
		if err := unix.Sysinfo(&si); err == nil {
			h.MemTotalKB = uint64(si.Totalram) * uint64(si.Unit) / 1024
		}
	}
	return h
}

// LoadAvg1 returns the 1-minute load average. Callers treat errors as
// advisory only.
func LoadAvg1() (float64, error) {
	avg, err := load.Avg()
	if err != nil {
		return 0, err
	}
	return avg.Load1, nil
}
