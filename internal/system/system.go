package system

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a resource snapshot of the running process
type Stats struct {
	RSS           uint64
	CPUPercent    float64
	SystemMemUsed float64
	LogicalCPUs   int
	Goroutines    int
}

// Snapshot samples memory and CPU usage of the current process
func Snapshot() (Stats, error) {
	st := Stats{Goroutines: runtime.NumGoroutine()}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return st, fmt.Errorf("open process: %w", err)
	}
	if info, err := proc.MemoryInfo(); err == nil {
		st.RSS = info.RSS
	}
	if pct, err := proc.CPUPercent(); err == nil {
		st.CPUPercent = pct
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		st.SystemMemUsed = vm.UsedPercent
	}
	if n, err := cpu.Counts(true); err == nil {
		st.LogicalCPUs = n
	}
	return st, nil
}

func (s Stats) String() string {
	return fmt.Sprintf("rss %s, cpu %.1f%% of %d cores, system memory %.1f%%, %d goroutines",
		FormatBytes(s.RSS), s.CPUPercent, s.LogicalCPUs, s.SystemMemUsed, s.Goroutines)
}

// FormatBytes renders a byte count with a binary unit
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// GetBestH264Encoder returns the first hardware H.264 encoder ffmpeg lists,
// libx264 otherwise
func GetBestH264Encoder() string {
	encoders := []string{"h264_videotoolbox", "h264_nvenc"}

	cmd := exec.Command("ffmpeg", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "libx264"
	}

	for _, name := range encoders {
		if strings.Contains(string(out), name) {
			return name
		}
	}

	return "libx264"
}
