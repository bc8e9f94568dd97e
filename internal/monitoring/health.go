package monitoring

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/process"
)

// Default health thresholds.
const (
	DefaultHeapLimit    = 512 << 20
	DefaultRSSLimit     = 768 << 20
	DefaultDiskPath     = "/"
	DefaultDiskMaxUsage = 0.9

	checkTimeout = 3 * time.Second
)

// Status values reported by health checks.
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusUp    = "up"
	StatusDown  = "down"
)

// Indicator is one named health probe.
type Indicator struct {
	Name  string
	Check func(ctx context.Context) error
}

// IndicatorStatus is the outcome of one probe.
type IndicatorStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Report aggregates probe outcomes. Status is ok only when every probe is up.
type Report struct {
	Status  string                     `json:"status"`
	Info    map[string]IndicatorStatus `json:"info"`
	Error   map[string]IndicatorStatus `json:"error"`
	Details map[string]IndicatorStatus `json:"details"`
}

// Healthy reports whether every probe passed.
func (r Report) Healthy() bool { return r.Status == StatusOK }

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthChecker runs the full, liveness and readiness probe sets.
type HealthChecker struct {
	full  []Indicator
	live  []Indicator
	ready []Indicator
}

// NewHealthChecker builds the standard probe sets over db.
func NewHealthChecker(db Pinger) *HealthChecker {
	database := DatabaseIndicator(db)
	heap := HeapIndicator(DefaultHeapLimit)
	return &HealthChecker{
		full:  []Indicator{database, heap, RSSIndicator(DefaultRSSLimit), DiskIndicator(DefaultDiskPath, DefaultDiskMaxUsage)},
		live:  []Indicator{heap},
		ready: []Indicator{database},
	}
}

// Check runs every probe.
func (h *HealthChecker) Check(ctx context.Context) Report { return Run(ctx, h.full...) }

// Live runs the liveness probes.
func (h *HealthChecker) Live(ctx context.Context) Report { return Run(ctx, h.live...) }

// Ready runs the readiness probes.
func (h *HealthChecker) Ready(ctx context.Context) Report { return Run(ctx, h.ready...) }

// Run executes indicators concurrently and aggregates their outcomes.
func Run(ctx context.Context, indicators ...Indicator) Report {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	results := make([]IndicatorStatus, len(indicators))
	var wg sync.WaitGroup
	for i, ind := range indicators {
		wg.Add(1)
		go func(i int, ind Indicator) {
			defer wg.Done()
			if err := ind.Check(ctx); err != nil {
				results[i] = IndicatorStatus{Status: StatusDown, Message: err.Error()}
				return
			}
			results[i] = IndicatorStatus{Status: StatusUp}
		}(i, ind)
	}
	wg.Wait()

	report := Report{
		Status:  StatusOK,
		Info:    map[string]IndicatorStatus{},
		Error:   map[string]IndicatorStatus{},
		Details: map[string]IndicatorStatus{},
	}
	for i, ind := range indicators {
		report.Details[ind.Name] = results[i]
		if results[i].Status == StatusUp {
			report.Info[ind.Name] = results[i]
		} else {
			report.Error[ind.Name] = results[i]
			report.Status = StatusError
		}
	}
	return report
}

// DatabaseIndicator pings the database.
func DatabaseIndicator(db Pinger) Indicator {
	return Indicator{Name: "database", Check: db.PingContext}
}

// HeapIndicator fails when the Go heap exceeds limit bytes.
func HeapIndicator(limit uint64) Indicator {
	return Indicator{Name: "memory_heap", Check: func(context.Context) error {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		if ms.HeapAlloc > limit {
			return fmt.Errorf("heap %d bytes exceeds %d", ms.HeapAlloc, limit)
		}
		return nil
	}}
}

// RSSIndicator fails when the process resident set exceeds limit bytes.
func RSSIndicator(limit uint64) Indicator {
	return Indicator{Name: "memory_rss", Check: func(ctx context.Context) error {
		proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
		if err != nil {
			return err
		}
		info, err := proc.MemoryInfoWithContext(ctx)
		if err != nil {
			return err
		}
		if info.RSS > limit {
			return fmt.Errorf("rss %d bytes exceeds %d", info.RSS, limit)
		}
		return nil
	}}
}

// DiskIndicator fails when the filesystem holding path is fuller than
// maxUsage (a ratio between 0 and 1).
func DiskIndicator(path string, maxUsage float64) Indicator {
	return Indicator{Name: "storage", Check: func(ctx context.Context) error {
		usage, err := disk.UsageWithContext(ctx, path)
		if err != nil {
			return err
		}
		if usage.UsedPercent > maxUsage*100 {
			return fmt.Errorf("disk %s at %.1f%%, above %.0f%%", path, usage.UsedPercent, maxUsage*100)
		}
		return nil
	}}
}
