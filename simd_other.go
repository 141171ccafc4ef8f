//go:build !amd64 && !arm64

package compose

func vectorMultiplier() int { return 1 }
