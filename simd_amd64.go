//go:build amd64

package compose

import "golang.org/x/sys/cpu"

// vectorMultiplier scales the per-operator baseline batch width. Wider
// batches only pay off when the compiler can keep the lane math in vector
// registers, which needs AVX2 on amd64.
func vectorMultiplier() int {
	if cpu.X86.HasAVX2 {
		return 2
	}
	return 1
}
