//go:build linux

package workerpool

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// PinToCPU binds the calling OS thread to a single CPU. Call it with
// the goroutine locked to its thread, otherwise the binding may end up
// on a thread that later runs other goroutines.
func PinToCPU(cpu int) error {
	if cpu < 0 {
		return fmt.Errorf("workerpool: invalid cpu %d", cpu)
	}
	var set unix.CPUSet
	set.Set(cpu)
	// pid 0 addresses the calling thread
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("workerpool: sched_setaffinity cpu %d: %w", cpu, err)
	}
	return nil
}
