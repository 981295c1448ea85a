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

package requant

import (
	"fmt"

	"github.com/ajroetker/go-highway-dwconv/hwy"
)

// Params holds the output side of an asymmetric affine quantization: the
// Q31 multiplier and right shift that rescale the accumulator domain into
// the output domain, the output zero-point offset, and the activation clamp.
type Params struct {
	OutputOffset     int32
	OutputMultiplier int32
	// OutputShift is a right shift in [0, 31].
	OutputShift   int32
	ActivationMin int32
	ActivationMax int32
}

// Validate reports whether p describes a usable uint8 output quantization.
func (p Params) Validate() error {
	if p.OutputShift < 0 || p.OutputShift > 31 {
		return fmt.Errorf("requant: output shift %d out of range [0, 31]", p.OutputShift)
	}
	if p.ActivationMin > p.ActivationMax {
		return fmt.Errorf("requant: activation min %d > max %d", p.ActivationMin, p.ActivationMax)
	}
	if p.ActivationMin < 0 || p.ActivationMax > 255 {
		return fmt.Errorf("requant: activation range [%d, %d] outside [0, 255]", p.ActivationMin, p.ActivationMax)
	}
	return nil
}

// Requantize converts a single accumulator.
func (p Params) Requantize(acc int32) uint8 {
	acc = hwy.MulHighRoundSat(acc, p.OutputMultiplier)
	acc = hwy.RoundingShiftRight(acc, int(p.OutputShift))
	acc = hwy.AddSat(acc, p.OutputOffset)
	acc = max(acc, p.ActivationMin)
	acc = min(acc, p.ActivationMax)
	return hwy.SaturateUint8(hwy.SaturateInt16(acc))
}

// Vector is Params broadcast across hwy.IntLanes lanes, built once per call
// so the per-pixel path only does lane arithmetic.
type Vector struct {
	multiplier hwy.Int32x8
	offset     hwy.Int32x8
	actMin     hwy.Int32x8
	actMax     hwy.Int32x8
	shift      int
}

// Vector returns the broadcast form of p.
func (p Params) Vector() Vector {
	return Vector{
		multiplier: hwy.BroadcastInt32x8(p.OutputMultiplier),
		offset:     hwy.BroadcastInt32x8(p.OutputOffset),
		actMin:     hwy.BroadcastInt32x8(p.ActivationMin),
		actMax:     hwy.BroadcastInt32x8(p.ActivationMax),
		shift:      int(p.OutputShift),
	}
}

// Requantize converts 8 accumulators at once.
func (v *Vector) Requantize(acc hwy.Int32x8) hwy.Uint8x8 {
	acc = acc.MulHighRoundSat(v.multiplier)
	acc = acc.RoundingShiftRight(v.shift)
	acc = acc.AddSat(v.offset)
	acc = acc.Max(v.actMin)
	acc = acc.Min(v.actMax)
	return acc.NarrowSatInt16().NarrowSatUint8()
}
