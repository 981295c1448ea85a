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

package dwconv

import (
	"fmt"

	"github.com/ajroetker/go-highway-dwconv/hwy/contrib/workerpool"
)

// convCall carries everything one convolution call reads.
type convCall struct {
	params
	cfg    *TilingConfig
	filter []uint8
	bias   []int32
	output []uint8
}

// Kernel is a 3x3 depthwise convolution with a fixed TilingConfig.
// A Kernel is safe for concurrent use.
type Kernel struct {
	cfg TilingConfig
}

// NewKernel returns a Kernel using cfg.
func NewKernel(cfg TilingConfig) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Kernel{cfg: cfg}, nil
}

// Config returns the kernel's tiling configuration.
func (k *Kernel) Config() TilingConfig {
	return k.cfg
}

var defaultKernel = &Kernel{cfg: DefaultTilingConfig()}

// DepthwiseConv3x3 computes the convolution with DefaultTilingConfig.
// See Kernel.DepthwiseConv3x3.
func DepthwiseConv3x3(input []uint8, inputDims Dims, filter []uint8, filterDims Dims, bias []int32,
	output []uint8, outputDims Dims, conv Conv, quant Quant, scratch *Scratch) {
	defaultKernel.DepthwiseConv3x3(input, inputDims, filter, filterDims, bias, output, outputDims, conv, quant, scratch)
}

// DepthwiseConv3x3 writes every element of output. Supported must accept
// the shape. filter is laid out [3][3][depth] and bias holds one value per
// channel. scratch may be nil, in which case the call allocates one.
//
// Panics if the shape is unsupported or a slice is too short.
func (k *Kernel) DepthwiseConv3x3(input []uint8, inputDims Dims, filter []uint8, filterDims Dims, bias []int32,
	output []uint8, outputDims Dims, conv Conv, quant Quant, scratch *Scratch) {
	c := k.newCall(input, inputDims, filter, filterDims, bias, output, outputDims, conv, quant)
	if scratch == nil {
		scratch = NewScratch()
	}
	c.batches(input, 0, inputDims.Batch, scratch)
}

// ParallelDepthwiseConv3x3 computes the convolution with DefaultTilingConfig,
// spreading batch elements over pool. See Kernel.ParallelDepthwiseConv3x3.
func ParallelDepthwiseConv3x3(pool workerpool.Executor, input []uint8, inputDims Dims, filter []uint8, filterDims Dims,
	bias []int32, output []uint8, outputDims Dims, conv Conv, quant Quant) {
	defaultKernel.ParallelDepthwiseConv3x3(pool, input, inputDims, filter, filterDims, bias, output, outputDims, conv, quant)
}

// ParallelDepthwiseConv3x3 computes the same output as DepthwiseConv3x3,
// with each chunk of batch elements on its own worker and its own Scratch.
// A nil pool runs inline.
func (k *Kernel) ParallelDepthwiseConv3x3(pool workerpool.Executor, input []uint8, inputDims Dims, filter []uint8,
	filterDims Dims, bias []int32, output []uint8, outputDims Dims, conv Conv, quant Quant) {
	c := k.newCall(input, inputDims, filter, filterDims, bias, output, outputDims, conv, quant)
	if pool == nil || pool.NumWorkers() <= 1 || inputDims.Batch <= 1 {
		c.batches(input, 0, inputDims.Batch, NewScratch())
		return
	}
	pool.ParallelFor(inputDims.Batch, func(start, end int) {
		c.batches(input, start, end, NewScratch())
	})
}

func (k *Kernel) newCall(input []uint8, inputDims Dims, filter []uint8, filterDims Dims, bias []int32,
	output []uint8, outputDims Dims, conv Conv, quant Quant) *convCall {
	if !Supported(inputDims, filterDims, conv, outputDims, quant.OutputShift) {
		panic(fmt.Sprintf("dwconv: unsupported shape input=%v filter=%v output=%v conv=%+v shift=%d",
			inputDims, filterDims, outputDims, conv, quant.OutputShift))
	}
	if filterDims.Depth != inputDims.Depth || outputDims.Depth != inputDims.Depth {
		panic("dwconv: input, filter and output depth differ")
	}
	if outputDims.Batch != inputDims.Batch {
		panic("dwconv: input and output batch differ")
	}
	if len(input) < inputDims.Size() {
		panic("dwconv: input slice too short")
	}
	if len(filter) < FilterSize*FilterSize*filterDims.Depth {
		panic("dwconv: filter slice too short")
	}
	if len(bias) < outputDims.Depth {
		panic("dwconv: bias slice too short")
	}
	if len(output) < outputDims.Size() {
		panic("dwconv: output slice too short")
	}
	return &convCall{
		params: newParams(inputDims, outputDims, conv.StrideWidth, quant),
		cfg:    &k.cfg,
		filter: filter,
		bias:   bias,
		output: output,
	}
}

// batches computes batch elements [start, end).
func (c *convCall) batches(input []uint8, start, end int, scratch *Scratch) {
	inBatch := c.inputRowSize * c.inputHeight
	outBatch := c.outputRowSize * c.outputHeight
	tiles := c.cfg.Tiles(c.stride)
	for b := start; b < end; b++ {
		inPos := b * inBatch
		outPos := b * outBatch
		ForEachRowBlock(c.outputHeight, c.inputWidth, tiles, func(outY int, tile ShuffleTileSpec) {
			c.multiRow(input, inPos+outY*c.stride*c.inputRowSize, outPos+outY*c.outputRowSize, tile, scratch)
		})
	}
}
