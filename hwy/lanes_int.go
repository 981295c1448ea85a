package hwy

// IntLanes is the logical lane count of the fixed-width integer vectors
// below. It is the channel grouping of the quantized convolution kernels and
// corresponds to one 64-bit NEON register of uint8 or two 128-bit registers
// of int32.
const IntLanes = 8

// Uint8x8 represents a vector of 8 uint8 values.
type Uint8x8 [IntLanes]uint8

// Int16x8 represents a 128-bit vector of 8 int16 values.
type Int16x8 [IntLanes]int16

// Int32x8 represents a vector of 8 int32 values (a register pair on NEON).
type Int32x8 [IntLanes]int32

// ===== Uint8x8 =====

// LoadUint8x8Slice loads 8 uint8 values from a slice.
func LoadUint8x8Slice(s []uint8) Uint8x8 {
	var v Uint8x8
	copy(v[:], s[:IntLanes])
	return v
}

// StoreSlice stores the vector to a slice.
func (v Uint8x8) StoreSlice(s []uint8) {
	copy(s[:IntLanes], v[:])
}

// WidenAdd zero-extends each lane to 16 bits and adds offset, wrapping at
// 16 bits (UADDW).
func (v Uint8x8) WidenAdd(offset Int16x8) Int16x8 {
	var result Int16x8
	for i := range IntLanes {
		result[i] = int16(v[i]) + offset[i]
	}
	return result
}

// ===== Int16x8 =====

// BroadcastInt16x8 creates a vector with all lanes set to the given value.
func BroadcastInt16x8(x int16) Int16x8 {
	return Int16x8{x, x, x, x, x, x, x, x}
}

// NarrowSatUint8 narrows each lane to uint8 with unsigned saturation (SQXTUN).
func (v Int16x8) NarrowSatUint8() Uint8x8 {
	var result Uint8x8
	for i := range IntLanes {
		result[i] = SaturateUint8(v[i])
	}
	return result
}

// ===== Int32x8 =====

// BroadcastInt32x8 creates a vector with all lanes set to the given value.
func BroadcastInt32x8(x int32) Int32x8 {
	return Int32x8{x, x, x, x, x, x, x, x}
}

// LoadInt32x8Slice loads 8 int32 values from a slice.
func LoadInt32x8Slice(s []int32) Int32x8 {
	var v Int32x8
	copy(v[:], s[:IntLanes])
	return v
}

// StoreSlice stores the vector to a slice.
func (v Int32x8) StoreSlice(s []int32) {
	copy(s[:IntLanes], v[:])
}

// AddSat performs element-wise saturating addition (SQADD).
func (v Int32x8) AddSat(other Int32x8) Int32x8 {
	for i := range IntLanes {
		v[i] = AddSat(v[i], other[i])
	}
	return v
}

// Min performs element-wise minimum.
func (v Int32x8) Min(other Int32x8) Int32x8 {
	for i := range IntLanes {
		v[i] = min(v[i], other[i])
	}
	return v
}

// Max performs element-wise maximum.
func (v Int32x8) Max(other Int32x8) Int32x8 {
	for i := range IntLanes {
		v[i] = max(v[i], other[i])
	}
	return v
}

// MulAddWiden accumulates the widened products a*b into v (SMLAL/SMLAL2).
func (v Int32x8) MulAddWiden(a, b Int16x8) Int32x8 {
	for i := range IntLanes {
		v[i] += int32(a[i]) * int32(b[i])
	}
	return v
}

// MulHighRoundSat applies MulHighRoundSat lane-wise (SQRDMULH).
func (v Int32x8) MulHighRoundSat(m Int32x8) Int32x8 {
	for i := range IntLanes {
		v[i] = MulHighRoundSat(v[i], m[i])
	}
	return v
}

// RoundingShiftRight applies RoundingShiftRight lane-wise with a shared
// exponent in [0, 31].
func (v Int32x8) RoundingShiftRight(exponent int) Int32x8 {
	for i := range IntLanes {
		v[i] = RoundingShiftRight(v[i], exponent)
	}
	return v
}

// NarrowSatInt16 narrows each lane to int16 with signed saturation (SQXTN).
func (v Int32x8) NarrowSatInt16() Int16x8 {
	var result Int16x8
	for i := range IntLanes {
		result[i] = SaturateInt16(v[i])
	}
	return result
}
