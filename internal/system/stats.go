package system

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a snapshot of resource usage taken around a build.
type Stats struct {
	RSS          uint64        // resident memory of this process, bytes
	CPUTime      time.Duration // user + system
	AvailableMem uint64        // host memory still available, bytes
}

// Snapshot reads the current process and host counters.
func Snapshot() (Stats, error) {
	var s Stats

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return s, err
	}
	mi, err := p.MemoryInfo()
	if err != nil {
		return s, err
	}
	s.RSS = mi.RSS

	times, err := p.Times()
	if err != nil {
		return s, err
	}
	s.CPUTime = time.Duration((times.User + times.System) * float64(time.Second))

	vm, err := mem.VirtualMemory()
	if err != nil {
		return s, err
	}
	s.AvailableMem = vm.Available
	return s, nil
}

// FrameMemory estimates the bytes held by n frames of the given size.
func FrameMemory(width, height, n int) uint64 {
	return uint64(width) * uint64(height) * 4 * uint64(n)
}

func (s Stats) String() string {
	return fmt.Sprintf("rss %s, cpu %s, host available %s",
		HumanBytes(s.RSS), s.CPUTime.Round(time.Millisecond), HumanBytes(s.AvailableMem))
}

func HumanBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
