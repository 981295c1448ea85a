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

package main

import (
	"bytes"
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-highway-dwconv/hwy/contrib/dwconv"
	"github.com/ajroetker/go-highway-dwconv/hwy/contrib/requant"
)

type verifyOptions struct {
	seed   int64
	cases  int
	stride int
	depth  int
}

func newVerifyCmd(root *rootOptions) *cobra.Command {
	opts := &verifyOptions{}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare the kernel against the reference on random shapes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.stride != 0 && opts.stride != 1 && opts.stride != 2 {
				return fmt.Errorf("--stride must be 0, 1 or 2, got %d", opts.stride)
			}
			if opts.depth < 0 || opts.depth%dwconv.DepthGroup != 0 {
				return fmt.Errorf("--depth must be a non-negative multiple of %d, got %d", dwconv.DepthGroup, opts.depth)
			}
			configs, err := root.tunedConfigs()
			if err != nil {
				return err
			}
			return runVerify(cmd, opts, configs)
		},
	}
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&opts.cases, "cases", 200, "number of random shapes")
	cmd.Flags().IntVar(&opts.stride, "stride", 0, "stride to test, 0 for both")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "depth to test, 0 for random")
	return cmd
}

type verifyCase struct {
	inputDims  dwconv.Dims
	outputDims dwconv.Dims
	filterDims dwconv.Dims
	conv       dwconv.Conv
	quant      dwconv.Quant
	input      []uint8
	filter     []uint8
	bias       []int32
}

func randomCase(rng *rand.Rand, opts *verifyOptions) (verifyCase, error) {
	stride := opts.stride
	if stride == 0 {
		stride = 1 + rng.Intn(2)
	}
	depth := opts.depth
	if depth == 0 {
		depth = dwconv.DepthGroup * (1 + rng.Intn(20))
	}
	outH := 1 + rng.Intn(20)
	outW := 1 + rng.Intn(40)
	if rng.Intn(8) == 0 {
		outW = 150 + rng.Intn(60)
	}
	inH := stride*(outH-1) + dwconv.FilterSize + rng.Intn(2)
	inW := stride*(outW-1) + dwconv.FilterSize + rng.Intn(2)
	batch := 1 + rng.Intn(2)

	c := verifyCase{
		inputDims:  dwconv.Dims{Batch: batch, Height: inH, Width: inW, Depth: depth},
		outputDims: dwconv.Dims{Batch: batch, Height: outH, Width: outW, Depth: depth},
		filterDims: dwconv.Dims{Batch: 1, Height: dwconv.FilterSize, Width: dwconv.FilterSize, Depth: depth},
		conv:       dwconv.Conv{StrideWidth: stride, StrideHeight: stride, DepthMultiplier: 1},
	}
	c.input = make([]uint8, c.inputDims.Size())
	rng.Read(c.input)
	c.filter = make([]uint8, c.filterDims.Size())
	rng.Read(c.filter)
	c.bias = make([]int32, depth)
	for i := range c.bias {
		c.bias[i] = int32(rng.Intn(40001) - 20000)
	}

	mult, shift, err := requant.QuantizeMultiplierSmallerThanOne(0.0001 + rng.Float64()*0.004)
	if err != nil {
		return c, err
	}
	actMin := int32(rng.Intn(64))
	c.quant = dwconv.Quant{
		InputOffset:         -int32(rng.Intn(256)),
		FilterOffset:        -int32(rng.Intn(256)),
		OutputOffset:        int32(rng.Intn(256)),
		OutputMultiplier:    mult,
		OutputShift:         shift,
		OutputActivationMin: actMin,
		OutputActivationMax: actMin + 192 + int32(rng.Intn(64)),
	}
	return c, nil
}

var shuffleModes = []dwconv.ShuffleMode{dwconv.ShuffleAuto, dwconv.ShuffleAlways, dwconv.ShuffleNever}

// runVerify checks every case in each shuffle mode. The automatic mode uses
// the per-stride configuration from configs.
func runVerify(cmd *cobra.Command, opts *verifyOptions, configs map[int]dwconv.TilingConfig) error {
	rng := rand.New(rand.NewSource(opts.seed))
	kernels := map[int]map[dwconv.ShuffleMode]*dwconv.Kernel{}
	for stride, base := range configs {
		kernels[stride] = map[dwconv.ShuffleMode]*dwconv.Kernel{}
		for _, mode := range shuffleModes {
			cfg := base
			cfg.Shuffle = mode
			k, err := dwconv.NewKernel(cfg)
			if err != nil {
				return fmt.Errorf("stride %d: %w", stride, err)
			}
			kernels[stride][mode] = k
		}
	}
	scratch := dwconv.NewScratch()

	failures := 0
	for i := range opts.cases {
		c, err := randomCase(rng, opts)
		if err != nil {
			return err
		}
		if !dwconv.Supported(c.inputDims, c.filterDims, c.conv, c.outputDims, c.quant.OutputShift) {
			return fmt.Errorf("case %d: generated unsupported shape %v", i, c.inputDims)
		}
		want := make([]uint8, c.outputDims.Size())
		dwconv.ReferenceDepthwiseConv3x3(c.input, c.inputDims, c.filter, c.bias, want, c.outputDims, c.conv.StrideWidth, c.quant)

		got := make([]uint8, len(want))
		for mode, k := range kernels[c.conv.StrideWidth] {
			k.DepthwiseConv3x3(c.input, c.inputDims, c.filter, c.filterDims, c.bias, got, c.outputDims, c.conv, c.quant, scratch)
			if !bytes.Equal(want, got) {
				failures++
				cmd.Printf("case %d: mismatch with shuffle=%v input=%v output=%v stride=%d\n",
					i, mode, c.inputDims, c.outputDims, c.conv.StrideWidth)
			}
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d runs differ from the reference", failures, opts.cases*len(shuffleModes))
	}
	cmd.Printf("%d cases match the reference in %d shuffle modes\n", opts.cases, len(shuffleModes))
	return nil
}
