package workerpool_test

import (
	"runtime"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	wp "github.com/azargarov/fixedpool"
)

func percentile(samples []int64, q float64) time.Duration {
	pos := int(float64(len(samples)-1) * q)
	return time.Duration(samples[pos])
}

func waitUntilB(b *testing.B, timeout time.Duration, cond func() bool) {
	b.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	b.Fatal("condition not satisfied before timeout")
}

// BenchmarkPool_Latency measures the time from Submit until a worker
// starts the job.
func BenchmarkPool_Latency(b *testing.B) {
	workers := getenvInt("WP_WORKERS", runtime.GOMAXPROCS(0))
	pinned := getenvInt("WP_PINNED", 0) > 0

	pool := wp.MustNewPool(&wp.NoopMetrics{}, wp.Options{
		Workers:       workers,
		QueueCapacity: 4096,
		PinWorkers:    pinned,
	})
	defer pool.Stop()

	var executed, submitted, idx atomic.Int64
	latencies := make([]int64, b.N)
	maxInflight := int64(workers * 32)

	b.ResetTimer()
	start := time.Now()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for submitted.Load()-executed.Load() > maxInflight {
				runtime.Gosched()
			}

			queuedAt := time.Now()
			err := pool.Submit(func() {
				if i := idx.Add(1) - 1; i < int64(len(latencies)) {
					latencies[i] = time.Since(queuedAt).Nanoseconds()
				}
				executed.Add(1)
			})
			if err != nil {
				b.Errorf("submit: %v", err)
				return
			}
			submitted.Add(1)
		}
	})

	waitUntilB(b, 10*time.Second, func() bool {
		return executed.Load() == int64(b.N)
	})

	elapsed := time.Since(start)
	mps := float64(executed.Load()) / elapsed.Seconds() / 1e6
	b.ReportMetric(mps, "Mjobs/sec")

	total := min(int(idx.Load()), len(latencies))
	if total == 0 {
		b.Fatal("no latencies recorded")
	}
	samples := latencies[:total]
	slices.Sort(samples)

	p50 := percentile(samples, 0.50)
	p90 := percentile(samples, 0.90)
	p99 := percentile(samples, 0.99)

	b.ReportMetric(float64(p50.Nanoseconds()), "p50_ns")
	b.ReportMetric(float64(p90.Nanoseconds()), "p90_ns")
	b.ReportMetric(float64(p99.Nanoseconds()), "p99_ns")

	b.Logf("Latency: p50=%v p90=%v p99=%v | %.2f Mjobs/sec | total=%d", p50, p90, p99, mps, total)
}
