package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// FindLatest returns the most recently modified file in dir whose name ends
// in one of exts (case-insensitive).
func FindLatest(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов %s", dir, strings.Join(exts, ", "))
	}

	return latestFile, nil
}

func hasExt(name string, exts []string) bool {
	name = strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(name, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// ProcessStats is a snapshot of this process for the performance report.
type ProcessStats struct {
	RSS           uint64
	CPUPercent    float64
	SystemMemUsed float64
	Goroutines    int
}

// ReadProcessStats samples the current process. Fields that cannot be read
// on this platform stay zero.
func ReadProcessStats() (ProcessStats, error) {
	stats := ProcessStats{Goroutines: runtime.NumGoroutine()}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return stats, fmt.Errorf("open process: %w", err)
	}
	if mi, err := proc.MemoryInfo(); err == nil {
		stats.RSS = mi.RSS
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.SystemMemUsed = vm.UsedPercent
	}
	return stats, nil
}

func (s ProcessStats) String() string {
	return fmt.Sprintf("RSS: %.1f MiB | CPU: %.1f%% | System memory: %.1f%% | Goroutines: %d",
		float64(s.RSS)/(1<<20), s.CPUPercent, s.SystemMemUsed, s.Goroutines)
}
