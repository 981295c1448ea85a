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

// ReferenceDepthwiseConv3x3 is a direct loop over every output element with
// the same arithmetic as the optimized kernel. It serves as the oracle for
// tests and accepts any shape whose receptive fields lie inside the input.
func ReferenceDepthwiseConv3x3(input []uint8, inputDims Dims, filter []uint8, bias []int32,
	output []uint8, outputDims Dims, stride int, quant Quant) {
	rq := quant.Requant()
	depth := inputDims.Depth
	for b := range outputDims.Batch {
		for oy := range outputDims.Height {
			for ox := range outputDims.Width {
				for c := range depth {
					acc := bias[c]
					for ky := range FilterSize {
						for kx := range FilterSize {
							y := oy*stride + ky
							x := ox*stride + kx
							in := int32(input[((b*inputDims.Height+y)*inputDims.Width+x)*depth+c]) + quant.InputOffset
							f := int32(filter[(ky*FilterSize+kx)*depth+c]) + quant.FilterOffset
							acc += in * f
						}
					}
					output[((b*outputDims.Height+oy)*outputDims.Width+ox)*depth+c] = rq.Requantize(acc)
				}
			}
		}
	}
}
