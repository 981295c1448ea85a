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

import "fmt"

// ShuffleGroup is the channel slice width packed into scratch.
const ShuffleGroup = 64

// ScratchSize is the scratch capacity in bytes: a 10x10 pixel window of
// ShuffleGroup channels.
const ScratchSize = 10 * 10 * ShuffleGroup

// Scratch holds one shuffled input window. A Scratch must not be shared by
// concurrent calls.
type Scratch [ScratchSize]uint8

// NewScratch allocates a zeroed Scratch.
func NewScratch() *Scratch {
	return new(Scratch)
}

// ShuffleTileSpec is the geometry of one shuffled tile. The input extent is
// derived from the output extent as stride*(output-1)+3.
type ShuffleTileSpec struct {
	OutputWidth  int
	OutputHeight int
	InputWidth   int
	InputHeight  int
}

// NewShuffleTileSpec returns the tile producing outW x outH outputs at the
// given stride.
func NewShuffleTileSpec(outW, outH, stride int) ShuffleTileSpec {
	return ShuffleTileSpec{
		OutputWidth:  outW,
		OutputHeight: outH,
		InputWidth:   stride*(outW-1) + FilterSize,
		InputHeight:  stride*(outH-1) + FilterSize,
	}
}

// ScratchBytes returns the bytes one ShuffleGroup slice of the tile's input
// window occupies.
func (s ShuffleTileSpec) ScratchBytes() int {
	return s.InputWidth * s.InputHeight * ShuffleGroup
}

// FitsScratch reports whether the tile's window fits in a Scratch.
func (s ShuffleTileSpec) FitsScratch() bool {
	return s.ScratchBytes() <= ScratchSize
}

func (s ShuffleTileSpec) validate(stride int) error {
	if s.OutputWidth < 1 || s.OutputHeight < 1 {
		return fmt.Errorf("dwconv: tile %dx%d has an empty output", s.OutputWidth, s.OutputHeight)
	}
	want := NewShuffleTileSpec(s.OutputWidth, s.OutputHeight, stride)
	if s != want {
		return fmt.Errorf("dwconv: tile %dx%d at stride %d needs input %dx%d, got %dx%d",
			s.OutputWidth, s.OutputHeight, stride, want.InputWidth, want.InputHeight, s.InputWidth, s.InputHeight)
	}
	return nil
}

// ShuffleInput copies a width x height window of depth channels from src
// into dst so that the window becomes densely packed:
//
//	dst[(y*width + x)*depth + c] = src[y*srcRowSize + x*srcDepth + c]
//
// dst must hold width*height*depth bytes. Bytes of dst outside that range
// are left unchanged.
func ShuffleInput(dst, src []uint8, srcDepth, srcRowSize, depth, width, height int) {
	if len(dst) < width*height*depth {
		panic("dwconv: shuffle destination too short")
	}
	out := 0
	for y := range height {
		in := y * srcRowSize
		for range width {
			copy(dst[out:out+depth], src[in:in+depth])
			out += depth
			in += srcDepth
		}
	}
}
