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
	"github.com/ajroetker/go-highway-dwconv/hwy"
	"github.com/ajroetker/go-highway-dwconv/hwy/contrib/requant"
)

// DepthGroup is the number of channels the window kernel computes at once.
const DepthGroup = hwy.IntLanes

// FilterSize is the spatial size of the filter in both dimensions.
const FilterSize = 3

// Dims describes an NHWC tensor with the channel axis innermost.
// Filters use Batch 1 and Height = Width = 3.
type Dims struct {
	Batch  int
	Height int
	Width  int
	Depth  int
}

// Size returns the number of elements.
func (d Dims) Size() int {
	return d.Batch * d.Height * d.Width * d.Depth
}

// Conv holds the convolution hyperparameters.
type Conv struct {
	StrideWidth     int
	StrideHeight    int
	PadWidth        int
	PadHeight       int
	DepthMultiplier int
}

// Quant holds the per-tensor quantization parameters. The offsets are the
// negated zero points and must lie in [-255, 255] so offset-corrected
// values fit in 16 bits.
type Quant struct {
	InputOffset         int32
	FilterOffset        int32
	OutputOffset        int32
	OutputMultiplier    int32
	OutputShift         int32
	OutputActivationMin int32
	OutputActivationMax int32
}

// Requant returns the output stage parameters of q.
func (q Quant) Requant() requant.Params {
	return requant.Params{
		OutputOffset:     q.OutputOffset,
		OutputMultiplier: q.OutputMultiplier,
		OutputShift:      q.OutputShift,
		ActivationMin:    q.OutputActivationMin,
		ActivationMax:    q.OutputActivationMax,
	}
}

// OutputSize returns the output extent for an input extent with no padding:
// (in - 3) / stride + 1.
func OutputSize(in, stride int) int {
	return (in-FilterSize)/stride + 1
}

// params is the constant parameter block of one call.
type params struct {
	inputDepth    int
	inputRowSize  int
	inputWidth    int
	inputHeight   int
	outputDepth   int
	outputRowSize int
	outputWidth   int
	outputHeight  int
	stride        int

	inputOffset  hwy.Int16x8
	filterOffset hwy.Int16x8
	requant      requant.Vector
}

func newParams(inputDims, outputDims Dims, stride int, q Quant) params {
	return params{
		inputDepth:    inputDims.Depth,
		inputRowSize:  inputDims.Depth * inputDims.Width,
		inputWidth:    inputDims.Width,
		inputHeight:   inputDims.Height,
		outputDepth:   outputDims.Depth,
		outputRowSize: outputDims.Depth * outputDims.Width,
		outputWidth:   outputDims.Width,
		outputHeight:  outputDims.Height,
		stride:        stride,
		inputOffset:   hwy.BroadcastInt16x8(int16(q.InputOffset)),
		filterOffset:  hwy.BroadcastInt16x8(int16(q.FilterOffset)),
		requant:       q.Requant().Vector(),
	}
}
