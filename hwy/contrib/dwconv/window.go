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

import "github.com/ajroetker/go-highway-dwconv/hwy"

// maxWindowRows is the input rows needed for two output rows at stride 2.
const maxWindowRows = 2*2 + 1

// column holds one offset-corrected input column of a window, one vector
// per input row.
type column [maxWindowRows]hwy.Int16x8

func (col *column) load(input []uint8, pos, rowSize, rows int, offset hwy.Int16x8) {
	for r := range rows {
		col[r] = hwy.LoadUint8x8Slice(input[pos:]).WidenAdd(offset)
		pos += rowSize
	}
}

// window computes an outH x outW block of outputs for the DepthGroup
// channels starting at channel ch. input is addressed with inDepth and
// inRowSize, which differ from the tensor's own strides when it points at
// shuffled scratch. inPos and outPos address the first channel of the
// block's top-left pixel.
//
// Output rows are produced two at a time, with a final single row when outH
// is odd. Along a row the three filter columns slide by stride, so only the
// new input columns are loaded.
func (c *convCall) window(input []uint8, inPos, inDepth, inRowSize, ch, outPos, outH, outW int) {
	var filter [FilterSize * FilterSize]hwy.Int16x8
	for k := range filter {
		filter[k] = hwy.LoadUint8x8Slice(c.filter[ch+k*c.outputDepth:]).WidenAdd(c.filterOffset)
	}
	bias := hwy.LoadInt32x8Slice(c.bias[ch:])
	stride := c.stride
	keep := FilterSize - stride

	var cols [FilterSize]column
	for oy := 0; oy < outH; {
		rows := min(2, outH-oy)
		inRows := stride*(rows-1) + FilterSize
		rowPos := inPos + oy*stride*inRowSize
		outRowPos := outPos + oy*c.outputRowSize

		for kx := range cols {
			cols[kx].load(input, rowPos+kx*inDepth, inRowSize, inRows, c.inputOffset)
		}
		for ox := range outW {
			if ox > 0 {
				copy(cols[:keep], cols[stride:])
				colPos := rowPos + (ox*stride+keep)*inDepth
				for kx := keep; kx < FilterSize; kx++ {
					cols[kx].load(input, colPos, inRowSize, inRows, c.inputOffset)
					colPos += inDepth
				}
			}
			for r := range rows {
				acc := bias
				for ky := range FilterSize {
					for kx := range FilterSize {
						acc = acc.MulAddWiden(filter[ky*FilterSize+kx], cols[kx][r*stride+ky])
					}
				}
				c.requant.Requantize(acc).StoreSlice(c.output[outRowPos+r*c.outputRowSize+ox*c.outputDepth:])
			}
		}
		oy += rows
	}
}

// throughDepth runs the window kernel over channels [startDepth, endDepth)
// in DepthGroup steps. The positions address startDepth; a remainder smaller
// than DepthGroup is not computed.
func (c *convCall) throughDepth(input []uint8, inPos, inDepth, inRowSize, ch, outPos, startDepth, endDepth, outH, outW int) {
	for ; startDepth <= endDepth-DepthGroup; startDepth += DepthGroup {
		c.window(input, inPos, inDepth, inRowSize, ch, outPos, outH, outW)
		inPos += DepthGroup
		ch += DepthGroup
		outPos += DepthGroup
	}
}
