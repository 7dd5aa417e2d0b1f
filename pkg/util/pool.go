package util

import "runtime"

// GetOptimalPoolSize sizes worker and parser pools at twice the CPU count,
// clamped to [4, 32]. The parser pool and the scan worker pool must agree
// on this number or workers block waiting for parsers.
func GetOptimalPoolSize() int {
	n := 2 * runtime.NumCPU()
	switch {
	case n < 4:
		return 4
	case n > 32:
		return 32
	}
	return n
}

// GetOptimalPoolSizeWithOverride honors an explicit size when positive.
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
