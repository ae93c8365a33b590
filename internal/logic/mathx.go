package logic

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
