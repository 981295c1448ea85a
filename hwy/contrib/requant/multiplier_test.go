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
	"math"
	"testing"
)

func TestQuantizeMultiplierSmallerThanOne(t *testing.T) {
	tests := []struct {
		real      float64
		wantMult  int32
		wantShift int32
	}{
		{0, 0, 0},
		{0.5, 1 << 30, 0},
		{0.25, 1 << 30, 1},
		{0.375, 3 << 29, 1},
		{1.0 / 1024, 1 << 30, 9},
	}
	for _, tt := range tests {
		m, s, err := QuantizeMultiplierSmallerThanOne(tt.real)
		if err != nil {
			t.Fatalf("QuantizeMultiplierSmallerThanOne(%v) error: %v", tt.real, err)
		}
		if m != tt.wantMult || s != tt.wantShift {
			t.Errorf("QuantizeMultiplierSmallerThanOne(%v) = (%d, %d), want (%d, %d)", tt.real, m, s, tt.wantMult, tt.wantShift)
		}
	}
}

func TestQuantizeMultiplierRoundTrip(t *testing.T) {
	for _, real := range []float64{0.9, 0.4999, 0.1234, 0.003, 1e-5, 3.2e-7} {
		m, s, err := QuantizeMultiplierSmallerThanOne(real)
		if err != nil {
			t.Fatalf("QuantizeMultiplierSmallerThanOne(%v) error: %v", real, err)
		}
		if m < 1<<30 {
			t.Errorf("multiplier %d for %v below 2^30", m, real)
		}
		approx := float64(m) / (1 << 31) * math.Pow(2, -float64(s))
		if rel := math.Abs(approx-real) / real; rel > 1e-9 {
			t.Errorf("real %v reconstructed as %v (rel err %g)", real, approx, rel)
		}
	}
}

func TestQuantizeMultiplierRejects(t *testing.T) {
	for _, real := range []float64{-0.1, 1, 1.5, math.NaN(), 0.99999999999} {
		if _, _, err := QuantizeMultiplierSmallerThanOne(real); err == nil {
			t.Errorf("QuantizeMultiplierSmallerThanOne(%v) succeeded, want error", real)
		}
	}
}
