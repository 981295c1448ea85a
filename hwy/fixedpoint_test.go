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

import (
	"math"
	"math/big"
	"math/rand"
	"testing"
)

var edgeInt32 = []int32{
	math.MinInt32, math.MinInt32 + 1, -1 << 30, -65536, -3, -2, -1,
	0, 1, 2, 3, 65535, 1 << 30, math.MaxInt32 - 1, math.MaxInt32,
}

// referenceMulHighRoundSat computes floor((2*a*b + 2^31) / 2^32) with
// arbitrary precision and saturates to int32.
func referenceMulHighRoundSat(a, b int32) int32 {
	p := new(big.Int).Mul(big.NewInt(int64(a)), big.NewInt(int64(b)))
	p.Lsh(p, 1)
	p.Add(p, big.NewInt(1<<31))
	p.Rsh(p, 32)
	if p.Cmp(big.NewInt(math.MaxInt32)) > 0 {
		return math.MaxInt32
	}
	if p.Cmp(big.NewInt(math.MinInt32)) < 0 {
		return math.MinInt32
	}
	return int32(p.Int64())
}

// referenceRoundingShiftRight rounds x / 2^e half away from zero using
// 64-bit intermediates.
func referenceRoundingShiftRight(x int32, e int) int32 {
	if e == 0 {
		return x
	}
	v := int64(x)
	half := int64(1) << (e - 1)
	if v >= 0 {
		return int32((v + half) >> e)
	}
	return int32(-((-v + half) >> e))
}

func TestMulHighRoundSatEdges(t *testing.T) {
	for _, a := range edgeInt32 {
		for _, b := range edgeInt32 {
			got := MulHighRoundSat(a, b)
			want := referenceMulHighRoundSat(a, b)
			if got != want {
				t.Errorf("MulHighRoundSat(%d, %d) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestMulHighRoundSatSaturates(t *testing.T) {
	if got := MulHighRoundSat(math.MinInt32, math.MinInt32); got != math.MaxInt32 {
		t.Errorf("MulHighRoundSat(MinInt32, MinInt32) = %d, want MaxInt32", got)
	}
}

func TestMulHighRoundSatRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for range 100000 {
		a := int32(rng.Uint32())
		b := int32(rng.Uint32())
		if got, want := MulHighRoundSat(a, b), referenceMulHighRoundSat(a, b); got != want {
			t.Fatalf("MulHighRoundSat(%d, %d) = %d, want %d", a, b, got, want)
		}
	}
}

func TestRoundingShiftRight(t *testing.T) {
	tests := []struct {
		x    int32
		e    int
		want int32
	}{
		{5, 1, 3},   // 2.5 -> 3
		{-5, 1, -3}, // -2.5 -> -3
		{3, 1, 2},   // 1.5 -> 2
		{-3, 1, -2}, // -1.5 -> -2
		{-2, 1, -1},
		{6, 2, 2},   // 1.5 -> 2
		{-6, 2, -2}, // -1.5 -> -2
		{-5, 2, -1}, // -1.25 -> -1
		{7, 0, 7},
		{math.MaxInt32, 31, 1},
		{math.MinInt32, 31, -1},
		{math.MaxInt32, 1, 1 << 30},
		{math.MinInt32, 1, -1 << 30},
	}
	for _, tt := range tests {
		if got := RoundingShiftRight(tt.x, tt.e); got != tt.want {
			t.Errorf("RoundingShiftRight(%d, %d) = %d, want %d", tt.x, tt.e, got, tt.want)
		}
	}
}

func TestRoundingShiftRightMatchesReference(t *testing.T) {
	for e := 0; e <= 31; e++ {
		for _, x := range edgeInt32 {
			if got, want := RoundingShiftRight(x, e), referenceRoundingShiftRight(x, e); got != want {
				t.Errorf("RoundingShiftRight(%d, %d) = %d, want %d", x, e, got, want)
			}
		}
	}
	rng := rand.New(rand.NewSource(7))
	for range 100000 {
		x := int32(rng.Uint32())
		e := rng.Intn(32)
		if got, want := RoundingShiftRight(x, e), referenceRoundingShiftRight(x, e); got != want {
			t.Fatalf("RoundingShiftRight(%d, %d) = %d, want %d", x, e, got, want)
		}
	}
}

func TestSaturate(t *testing.T) {
	if got := SaturateInt16(40000); got != math.MaxInt16 {
		t.Errorf("SaturateInt16(40000) = %d", got)
	}
	if got := SaturateInt16(-40000); got != math.MinInt16 {
		t.Errorf("SaturateInt16(-40000) = %d", got)
	}
	if got := SaturateInt16(-12); got != -12 {
		t.Errorf("SaturateInt16(-12) = %d", got)
	}
	if got := SaturateUint8(-1); got != 0 {
		t.Errorf("SaturateUint8(-1) = %d", got)
	}
	if got := SaturateUint8(256); got != 255 {
		t.Errorf("SaturateUint8(256) = %d", got)
	}
	if got := SaturateUint8(200); got != 200 {
		t.Errorf("SaturateUint8(200) = %d", got)
	}
}

func TestAddSat(t *testing.T) {
	tests := []struct{ a, b, want int32 }{
		{1, 2, 3},
		{math.MaxInt32, 1, math.MaxInt32},
		{math.MinInt32, -1, math.MinInt32},
		{math.MaxInt32, math.MinInt32, -1},
		{-255, 100, -155},
	}
	for _, tt := range tests {
		if got := AddSat(tt.a, tt.b); got != tt.want {
			t.Errorf("AddSat(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
