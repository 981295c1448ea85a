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

// Package requant converts 32-bit quantized accumulators into 8-bit outputs
// with an asymmetric affine output quantization.
//
// The conversion is applied per accumulator value, in this exact order:
//
//  1. acc = MulHighRoundSat(acc, OutputMultiplier)   // Q31 rescale, SQRDMULH
//  2. acc = RoundingShiftRight(acc, OutputShift)     // ties away from zero
//  3. acc = acc + OutputOffset                       // saturating
//  4. acc = clamp(acc, ActivationMin, ActivationMax) // min applied first
//  5. out = uint8(saturate(saturate16(acc)))         // SQXTN then SQXTUN
//
// Reordering steps 1 and 2 changes results, so every path in this package
// (scalar, fixed 8-lane, and slice) runs the same sequence on the
// primitives from the hwy package and produces bit-identical output.
//
// # Core Functions
//
//   - Params.Requantize(acc int32) uint8
//   - Vector.Requantize(acc hwy.Int32x8) hwy.Uint8x8
//   - RequantizeInt32(acc []int32, out []uint8, p Params)
//   - QuantizeMultiplierSmallerThanOne(real float64) (multiplier, shift int32, err error)
//
// # Example Usage
//
//	import "github.com/ajroetker/go-highway-dwconv/hwy/contrib/requant"
//
//	m, shift, err := requant.QuantizeMultiplierSmallerThanOne(0.0123)
//	if err != nil {
//	    return err
//	}
//	p := requant.Params{OutputOffset: 3, OutputMultiplier: m, OutputShift: shift, ActivationMax: 255}
//	out := make([]uint8, len(acc))
//	requant.RequantizeInt32(acc, out, p)
package requant
