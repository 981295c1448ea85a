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
	"github.com/ajroetker/go-highway-dwconv/hwy"
)

// RequantizeInt32 converts a slice of accumulators into uint8 outputs.
//
//	out[i] = p.Requantize(acc[i])
//
// If the slices have different lengths, the shorter length is used.
func RequantizeInt32(acc []int32, out []uint8, p Params) {
	n := min(len(acc), len(out))
	if n == 0 {
		return
	}

	lanes := hwy.NumLanes[int32]()
	multiplierVec := hwy.Set(p.OutputMultiplier)
	offsetVec := hwy.Set(p.OutputOffset)
	minVec := hwy.Set(p.ActivationMin)
	maxVec := hwy.Set(p.ActivationMax)
	shift := int(p.OutputShift)

	buf := make([]int32, lanes)

	i := 0
	for ; i+lanes <= n; i += lanes {
		v := hwy.Load(acc[i:])
		v = hwy.MulHighRoundSatVec(v, multiplierVec)
		v = hwy.RoundingShiftRightVec(v, shift)
		v = hwy.AddSatVec(v, offsetVec)
		v = hwy.Clamp(v, minVec, maxVec)

		// Store to buffer and narrow int32 -> int16 -> uint8
		hwy.Store(v, buf)
		for j := range lanes {
			out[i+j] = hwy.SaturateUint8(hwy.SaturateInt16(buf[j]))
		}
	}

	// Scalar tail
	for ; i < n; i++ {
		out[i] = p.Requantize(acc[i])
	}
}
