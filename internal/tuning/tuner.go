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

package tuning

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/samber/lo"

	"github.com/ajroetker/go-highway-dwconv/hwy/contrib/dwconv"
	"github.com/ajroetker/go-highway-dwconv/hwy/contrib/requant"
)

// Tuner times the shuffled and direct paths over a range of depths and
// widths and picks the thresholds where shuffling starts to pay off.
type Tuner struct {
	Seed       int64
	Iterations int
	Stride     int
	Height     int
	// Depths are probed at ProbeWidth. Keep them multiples of 64 so the
	// shuffled path actually repacks.
	Depths     []int
	ProbeWidth int
	// Widths are probed at depth 64.
	Widths []int
}

// DefaultTuner returns a Tuner with probes around the default thresholds.
func DefaultTuner() *Tuner {
	return &Tuner{
		Seed:       1,
		Iterations: 5,
		Stride:     1,
		Height:     10,
		Depths:     []int{64, 128, 256, 512},
		ProbeWidth: 32,
		Widths:     []int{32, 64, 128, 160, 256},
	}
}

// Run measures every probe and returns the resulting record for platform.
func (t *Tuner) Run(ctx context.Context, platform string) (Record, error) {
	if err := t.Validate(); err != nil {
		return Record{}, err
	}
	rng := rand.New(rand.NewSource(t.Seed))
	r := Record{Platform: platform, Stride: t.Stride}

	for _, depth := range t.Depths {
		p, err := t.measure(ctx, rng, t.ProbeWidth, depth)
		if err != nil {
			return Record{}, err
		}
		r.DepthProbes = append(r.DepthProbes, p)
	}
	for _, width := range t.Widths {
		p, err := t.measure(ctx, rng, width, dwconv.ShuffleGroup)
		if err != nil {
			return Record{}, err
		}
		r.WidthProbes = append(r.WidthProbes, p)
	}

	r.ShuffleDepthThreshold = threshold(r.DepthProbes, func(p Probe) int { return p.Depth })
	r.ShuffleWidthThreshold = threshold(r.WidthProbes, func(p Probe) int { return p.Width })
	r.MeasuredAt = time.Now().UTC()
	return r, nil
}

// Validate reports probe settings that would produce shapes the kernel
// does not support.
func (t *Tuner) Validate() error {
	if t.Stride != 1 && t.Stride != 2 {
		return fmt.Errorf("tuning: stride must be 1 or 2, got %d", t.Stride)
	}
	if t.Height < 1 {
		return fmt.Errorf("tuning: probe height must be positive, got %d", t.Height)
	}
	if t.ProbeWidth < dwconv.FilterSize {
		return fmt.Errorf("tuning: probe width must be at least %d, got %d", dwconv.FilterSize, t.ProbeWidth)
	}
	for _, d := range t.Depths {
		if d <= 0 || d%dwconv.DepthGroup != 0 {
			return fmt.Errorf("tuning: depth %d is not a positive multiple of %d", d, dwconv.DepthGroup)
		}
	}
	for _, w := range t.Widths {
		if w < dwconv.FilterSize {
			return fmt.Errorf("tuning: width %d is below the filter size %d", w, dwconv.FilterSize)
		}
	}
	return nil
}

// threshold returns the largest probed size below the first size at which
// shuffling won. If shuffling never won, the largest probed size is
// returned.
func threshold(probes []Probe, size func(Probe) int) int {
	if len(probes) == 0 {
		return 0
	}
	first, idx, ok := lo.FindIndexOf(probes, Probe.ShuffleWins)
	switch {
	case !ok:
		return lo.Max(lo.Map(probes, func(p Probe, _ int) int { return size(p) }))
	case idx == 0:
		return size(first) - 1
	default:
		return size(probes[idx-1])
	}
}

func (t *Tuner) measure(ctx context.Context, rng *rand.Rand, width, depth int) (Probe, error) {
	if err := ctx.Err(); err != nil {
		return Probe{}, err
	}
	stride := t.Stride
	height := stride*(t.Height-1) + dwconv.FilterSize
	inputDims := dwconv.Dims{Batch: 1, Height: height, Width: width, Depth: depth}
	outputDims := dwconv.Dims{
		Batch:  1,
		Height: dwconv.OutputSize(height, stride),
		Width:  dwconv.OutputSize(width, stride),
		Depth:  depth,
	}
	filterDims := dwconv.Dims{Batch: 1, Height: dwconv.FilterSize, Width: dwconv.FilterSize, Depth: depth}
	conv := dwconv.Conv{StrideWidth: stride, StrideHeight: stride, DepthMultiplier: 1}

	input := randomBytes(rng, inputDims.Size())
	filter := randomBytes(rng, filterDims.Size())
	bias := make([]int32, depth)
	for i := range bias {
		bias[i] = int32(rng.Intn(2001) - 1000)
	}
	mult, shift, err := requant.QuantizeMultiplierSmallerThanOne(0.001)
	if err != nil {
		return Probe{}, err
	}
	quant := dwconv.Quant{
		InputOffset:         -128,
		FilterOffset:        -128,
		OutputOffset:        128,
		OutputMultiplier:    mult,
		OutputShift:         shift,
		OutputActivationMax: 255,
	}

	output := make([]uint8, outputDims.Size())
	scratch := dwconv.NewScratch()
	timeMode := func(mode dwconv.ShuffleMode) (int64, error) {
		cfg := dwconv.DefaultTilingConfig()
		cfg.Shuffle = mode
		k, err := dwconv.NewKernel(cfg)
		if err != nil {
			return 0, err
		}
		best := int64(-1)
		for range max(t.Iterations, 1) {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			start := time.Now()
			k.DepthwiseConv3x3(input, inputDims, filter, filterDims, bias, output, outputDims, conv, quant, scratch)
			if ns := time.Since(start).Nanoseconds(); best < 0 || ns < best {
				best = ns
			}
		}
		return best, nil
	}

	p := Probe{Height: height, Width: width, Depth: depth}
	if p.DirectNs, err = timeMode(dwconv.ShuffleNever); err != nil {
		return Probe{}, err
	}
	if p.ShuffledNs, err = timeMode(dwconv.ShuffleAlways); err != nil {
		return Probe{}, err
	}
	return p, nil
}

func randomBytes(rng *rand.Rand, n int) []uint8 {
	b := make([]uint8, n)
	rng.Read(b)
	return b
}
