//go:build arm64

package compose

import "golang.org/x/sys/cpu"

func vectorMultiplier() int {
	// ASIMD is baseline on arm64 but may be masked off in some VMs.
	if cpu.ARM64.HasASIMD {
		return 2
	}
	return 1
}
