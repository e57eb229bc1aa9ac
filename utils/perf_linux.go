//go:build linux

package utils

import (
	"runtime"

	perf "github.com/hodgesds/perf-utils"
)

// CountInstructions runs f on a locked OS thread and reports the retired CPU
// instructions. When the kernel refuses the perf event f still runs once and
// the counter error is returned alongside f's result.
func CountInstructions(f func() error) (instructions uint64, err error) {
	var (
		ran  bool
		fErr error
		pv   *perf.ProfileValue
	)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	pv, err = perf.CPUInstructions(func() error {
		ran = true
		fErr = f()
		return fErr
	})
	if !ran {
		if fErr = f(); fErr != nil {
			return 0, fErr
		}
		return
	}
	if fErr != nil {
		return 0, fErr
	}
	if err == nil {
		instructions = pv.Value
	}
	return
}
