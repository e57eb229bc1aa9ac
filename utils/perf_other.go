//go:build !linux

package utils

import "fmt"

func CountInstructions(f func() error) (instructions uint64, err error) {
	if err = f(); err != nil {
		return
	}
	err = fmt.Errorf("hardware instruction counters are only available on linux")
	return
}
