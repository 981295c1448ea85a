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

// Supported reports whether the 3x3 kernel can compute the given shape. It
// has no side effects; callers route unsupported shapes to a generic
// depthwise convolution.
func Supported(inputDims, filterDims Dims, conv Conv, outputDims Dims, outputShift int32) bool {
	supported := filterDims.Width == FilterSize && filterDims.Height == FilterSize &&
		conv.DepthMultiplier == 1 &&
		(conv.StrideWidth == 1 || conv.StrideWidth == 2) &&
		(conv.StrideHeight == 1 || conv.StrideHeight == 2) &&
		conv.StrideWidth == conv.StrideHeight &&
		conv.PadWidth == 0 && conv.PadHeight == 0 &&
		inputDims.Depth%DepthGroup == 0 &&
		outputShift > 0
	if !supported {
		return false
	}

	// The filter on the right and bottom boundary must lie completely
	// within the input; there is no edge handling.
	outX := outputDims.Width - 1
	outY := outputDims.Height - 1
	inXEnd := outX*conv.StrideWidth - conv.PadWidth + filterDims.Width
	inYEnd := outY*conv.StrideHeight - conv.PadHeight + filterDims.Height
	return inXEnd <= inputDims.Width && inYEnd <= inputDims.Height
}
