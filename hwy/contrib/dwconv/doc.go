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

// Package dwconv provides a quantized uint8 depthwise 2-D convolution
// specialized for 3x3 filters, depth multiplier 1, no padding, and stride 1
// or 2, on NHWC tensors.
//
// Values use per-tensor asymmetric affine quantization. For every output
// pixel and channel c:
//
//	acc = bias[c] + Σ (filter[ky][kx][c] + FilterOffset) * (input[y+ky][x+kx][c] + InputOffset)
//	out = requant(acc)
//
// where requant is the fixed-point sequence of the requant package. Results
// are bit-exact with ReferenceDepthwiseConv3x3.
//
// # Supported Shapes
//
// Call Supported before DepthwiseConv3x3. It accepts a shape only if the
// filter is 3x3, the depth multiplier is 1, strides are equal and in {1, 2},
// padding is zero, depth is a multiple of 8, the output shift is positive,
// and the receptive field of the last output pixel lies inside the input.
// Shapes it rejects must go to a generic depthwise implementation; this
// package has no fallback of its own and panics on unsupported input.
//
// # Execution
//
// Channels are processed in groups of DepthGroup (8). Output rows are
// produced in blocks of 8, 4, 2, then 1 rows, and for inputs that are deep
// or wide each block's input window is first repacked 64 channels at a time
// into a caller-owned Scratch so the window kernel reads contiguous memory.
// The thresholds steering those choices live in TilingConfig; they only
// affect speed, never results.
//
// # Example Usage
//
//	import "github.com/ajroetker/go-highway-dwconv/hwy/contrib/dwconv"
//
//	conv := dwconv.Conv{StrideWidth: 1, StrideHeight: 1, DepthMultiplier: 1}
//	if !dwconv.Supported(inDims, filterDims, conv, outDims, q.OutputShift) {
//	    return genericDepthwiseConv(...)
//	}
//	scratch := dwconv.NewScratch()
//	dwconv.DepthwiseConv3x3(input, inDims, filter, filterDims, bias, output, outDims, conv, q, scratch)
//
// # Concurrency
//
// A call runs to completion on the calling goroutine. Concurrent calls may
// share input, filter and bias, but each needs its own Scratch and a
// disjoint output region. ParallelDepthwiseConv3x3 spreads batch elements
// over a workerpool.Executor with one Scratch per worker chunk.
package dwconv
