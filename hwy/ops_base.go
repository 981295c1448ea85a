package hwy

// This file provides pure Go (scalar) implementations of the Highway
// operations used by the integer kernels. Every op works lane by lane over
// the shorter of its operands, so a Vec loaded from a short tail behaves
// like a narrower vector.

// Load creates a vector by loading data from a slice.
func Load[T Lanes](src []T) Vec[T] {
	n := min(MaxLanes[T](), len(src))
	data := make([]T, n)
	copy(data, src[:n])
	return Vec[T]{data: data}
}

// Store writes a vector's data to a slice.
func Store[T Lanes](v Vec[T], dst []T) {
	n := min(len(v.data), len(dst))
	copy(dst[:n], v.data[:n])
}

// Set creates a vector with all lanes set to the same value.
func Set[T Lanes](value T) Vec[T] {
	data := make([]T, MaxLanes[T]())
	for i := range data {
		data[i] = value
	}
	return Vec[T]{data: data}
}

// Zero creates a vector with all lanes set to zero.
func Zero[T Lanes]() Vec[T] {
	return Vec[T]{data: make([]T, MaxLanes[T]())}
}

// Add performs element-wise addition.
func Add[T Lanes](a, b Vec[T]) Vec[T] {
	n := min(len(a.data), len(b.data))
	result := make([]T, n)
	for i := 0; i < n; i++ {
		result[i] = a.data[i] + b.data[i]
	}
	return Vec[T]{data: result}
}

// Min returns element-wise minimum.
func Min[T Lanes](a, b Vec[T]) Vec[T] {
	n := min(len(a.data), len(b.data))
	result := make([]T, n)
	for i := 0; i < n; i++ {
		result[i] = min(a.data[i], b.data[i])
	}
	return Vec[T]{data: result}
}

// Max returns element-wise maximum.
func Max[T Lanes](a, b Vec[T]) Vec[T] {
	n := min(len(a.data), len(b.data))
	result := make([]T, n)
	for i := 0; i < n; i++ {
		result[i] = max(a.data[i], b.data[i])
	}
	return Vec[T]{data: result}
}

// Clamp limits each lane to [lo, hi]. The lower bound is applied first, so
// lo > hi yields hi.
func Clamp[T Lanes](v, lo, hi Vec[T]) Vec[T] {
	return Min(Max(v, lo), hi)
}

// MulHighRoundSatVec applies MulHighRoundSat lane-wise.
func MulHighRoundSatVec(a, b Vec[int32]) Vec[int32] {
	n := min(len(a.data), len(b.data))
	result := make([]int32, n)
	for i := 0; i < n; i++ {
		result[i] = MulHighRoundSat(a.data[i], b.data[i])
	}
	return Vec[int32]{data: result}
}

// AddSatVec applies AddSat lane-wise.
func AddSatVec(a, b Vec[int32]) Vec[int32] {
	n := min(len(a.data), len(b.data))
	result := make([]int32, n)
	for i := 0; i < n; i++ {
		result[i] = AddSat(a.data[i], b.data[i])
	}
	return Vec[int32]{data: result}
}

// RoundingShiftRightVec applies RoundingShiftRight lane-wise.
func RoundingShiftRightVec(v Vec[int32], exponent int) Vec[int32] {
	result := make([]int32, len(v.data))
	for i, x := range v.data {
		result[i] = RoundingShiftRight(x, exponent)
	}
	return Vec[int32]{data: result}
}
