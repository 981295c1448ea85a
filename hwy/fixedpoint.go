// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hwy

import "math"

// Scalar fixed-point primitives. The lane types in lanes_int.go and the
// generic Vec ops apply these per lane, so every path rounds identically.

// MulHighRoundSat returns the high 32 bits of the doubled 64-bit product
// a*b, rounded to nearest. Both operands are read as Q31 fractions.
// The only overflowing input, a == b == math.MinInt32, saturates to
// math.MaxInt32.
//
// This matches the NEON SQRDMULH instruction.
func MulHighRoundSat(a, b int32) int32 {
	if a == b && a == math.MinInt32 {
		return math.MaxInt32
	}
	ab := int64(a) * int64(b)
	nudge := int64(1 << 30)
	if ab < 0 {
		nudge = 1 - (1 << 30)
	}
	// Division truncates toward zero, which together with the signed nudge
	// rounds half toward positive infinity for both signs.
	return int32((ab + nudge) / (1 << 31))
}

// RoundingShiftRight divides x by 2^exponent, rounding to nearest with
// ties away from zero. exponent must be in [0, 31].
func RoundingShiftRight(x int32, exponent int) int32 {
	mask := int32((int64(1) << exponent) - 1)
	remainder := x & mask
	threshold := mask >> 1
	if x < 0 {
		threshold++
	}
	result := x >> exponent
	if remainder > threshold {
		result++
	}
	return result
}

// AddSat returns a+b clamped to the int32 range (SQADD).
func AddSat(a, b int32) int32 {
	sum := int64(a) + int64(b)
	if sum > math.MaxInt32 {
		return math.MaxInt32
	}
	if sum < math.MinInt32 {
		return math.MinInt32
	}
	return int32(sum)
}

// SaturateInt16 narrows x to int16, clamping at the int16 limits.
func SaturateInt16(x int32) int16 {
	if x > math.MaxInt16 {
		return math.MaxInt16
	}
	if x < math.MinInt16 {
		return math.MinInt16
	}
	return int16(x)
}

// SaturateUint8 narrows a signed 16-bit value to uint8, clamping to [0, 255].
func SaturateUint8(x int16) uint8 {
	if x < 0 {
		return 0
	}
	if x > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(x)
}
