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
	"math"
)

// QuantizeMultiplierSmallerThanOne converts a real rescale factor in [0, 1)
// into a Q31 multiplier and a right shift such that
//
//	real ≈ float64(multiplier) / 2^31 * 2^-shift
//
// The multiplier lies in [2^30, 2^31) for any non-zero input. A real value
// of 0 yields (0, 0). Factors in [0.5, 1) produce a shift of 0, which the
// 3x3 depthwise kernel does not accept.
func QuantizeMultiplierSmallerThanOne(real float64) (multiplier, shift int32, err error) {
	if math.IsNaN(real) || real < 0 || real >= 1 {
		return 0, 0, fmt.Errorf("requant: multiplier %v out of range [0, 1)", real)
	}
	if real == 0 {
		return 0, 0, nil
	}

	frac, exp := math.Frexp(real) // real = frac * 2^exp, frac in [0.5, 1)
	q := int64(math.Round(frac * (1 << 31)))
	if q == 1<<31 {
		q /= 2
		exp++
	}
	shift = int32(-exp)
	if shift < 0 {
		return 0, 0, fmt.Errorf("requant: multiplier %v rounds up to 1", real)
	}
	if shift > 31 {
		// Too small to represent; the rescale flushes every accumulator to zero.
		return 0, 0, nil
	}
	return int32(q), shift, nil
}
