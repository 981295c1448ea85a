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

// ShuffleMode selects when MultiRow blocks repack their input window.
type ShuffleMode int

const (
	// ShuffleAuto shuffles when depth or input width exceeds the
	// configured thresholds.
	ShuffleAuto ShuffleMode = iota
	// ShuffleAlways shuffles every full-width tile that fits in Scratch.
	ShuffleAlways
	// ShuffleNever reads the input tensor directly.
	ShuffleNever
)

func (m ShuffleMode) String() string {
	switch m {
	case ShuffleAuto:
		return "auto"
	case ShuffleAlways:
		return "always"
	case ShuffleNever:
		return "never"
	default:
		return fmt.Sprintf("ShuffleMode(%d)", int(m))
	}
}

// TileSet holds the tile used for each row-block height.
type TileSet struct {
	OneRow   ShuffleTileSpec
	TwoRow   ShuffleTileSpec
	FourRow  ShuffleTileSpec
	EightRow ShuffleTileSpec
}

// NewTileSet builds a TileSet from the output widths of the 1, 2, 4 and
// 8 row tiles.
func NewTileSet(stride, oneRow, twoRow, fourRow, eightRow int) TileSet {
	return TileSet{
		OneRow:   NewShuffleTileSpec(oneRow, 1, stride),
		TwoRow:   NewShuffleTileSpec(twoRow, 2, stride),
		FourRow:  NewShuffleTileSpec(fourRow, 4, stride),
		EightRow: NewShuffleTileSpec(eightRow, 8, stride),
	}
}

// DefaultTileSet returns tiles whose windows fit a Scratch.
func DefaultTileSet(stride int) TileSet {
	if stride == 2 {
		return NewTileSet(2, 14, 8, 4, 2)
	}
	return NewTileSet(1, 30, 22, 14, 8)
}

func (ts TileSet) validate(stride int) error {
	for _, tile := range []struct {
		rows int
		spec ShuffleTileSpec
	}{{1, ts.OneRow}, {2, ts.TwoRow}, {4, ts.FourRow}, {8, ts.EightRow}} {
		if tile.spec.OutputHeight != tile.rows {
			return fmt.Errorf("dwconv: %d-row tile has output height %d", tile.rows, tile.spec.OutputHeight)
		}
		if err := tile.spec.validate(stride); err != nil {
			return err
		}
	}
	return nil
}

// TilingConfig holds the performance parameters of the kernel. None of them
// change results.
type TilingConfig struct {
	// ShuffleDepthThreshold: in ShuffleAuto mode, depths above it shuffle.
	ShuffleDepthThreshold int
	// ShuffleWidthThreshold: in ShuffleAuto mode, input widths above it
	// shuffle.
	ShuffleWidthThreshold int
	Shuffle               ShuffleMode
	Stride1               TileSet
	Stride2               TileSet
}

// DefaultTilingConfig returns the built-in configuration.
func DefaultTilingConfig() TilingConfig {
	return TilingConfig{
		ShuffleDepthThreshold: 64,
		ShuffleWidthThreshold: 150,
		Shuffle:               ShuffleAuto,
		Stride1:               DefaultTileSet(1),
		Stride2:               DefaultTileSet(2),
	}
}

// Validate checks that every tile is consistent with its stride. Tiles too
// large for Scratch are valid; they never shuffle.
func (c TilingConfig) Validate() error {
	if c.ShuffleDepthThreshold < 0 || c.ShuffleWidthThreshold < 0 {
		return fmt.Errorf("dwconv: negative shuffle threshold (depth %d, width %d)",
			c.ShuffleDepthThreshold, c.ShuffleWidthThreshold)
	}
	if c.Shuffle < ShuffleAuto || c.Shuffle > ShuffleNever {
		return fmt.Errorf("dwconv: unknown shuffle mode %d", int(c.Shuffle))
	}
	if err := c.Stride1.validate(1); err != nil {
		return fmt.Errorf("stride 1: %w", err)
	}
	if err := c.Stride2.validate(2); err != nil {
		return fmt.Errorf("stride 2: %w", err)
	}
	return nil
}

// Tiles returns the tile set for stride.
func (c TilingConfig) Tiles(stride int) TileSet {
	if stride == 2 {
		return c.Stride2
	}
	return c.Stride1
}

// UseShuffle reports whether a MultiRow block with the given tile shuffles
// its input. A tile whose window does not fit in Scratch never does.
func (c TilingConfig) UseShuffle(tile ShuffleTileSpec, inputWidth, depth int) bool {
	if !tile.FitsScratch() {
		return false
	}
	switch c.Shuffle {
	case ShuffleAlways:
		return true
	case ShuffleNever:
		return false
	}
	return depth > c.ShuffleDepthThreshold || inputWidth > c.ShuffleWidthThreshold
}

// ForEachRowBlock partitions outputHeight rows into blocks and calls fn with
// each block's first row and tile, top to bottom. Eight-row blocks are used
// while the input is narrower than the four-row tile's input width, four-row
// blocks while it is narrower than the two-row tile's input width, then
// two-row blocks, then a final single row.
func ForEachRowBlock(outputHeight, inputWidth int, tiles TileSet, fn func(outY int, tile ShuffleTileSpec)) {
	outY := 0
	if inputWidth < tiles.FourRow.InputWidth {
		for ; outY <= outputHeight-tiles.EightRow.OutputHeight; outY += tiles.EightRow.OutputHeight {
			fn(outY, tiles.EightRow)
		}
	}
	if inputWidth < tiles.TwoRow.InputWidth {
		for ; outY <= outputHeight-tiles.FourRow.OutputHeight; outY += tiles.FourRow.OutputHeight {
			fn(outY, tiles.FourRow)
		}
	}
	for ; outY <= outputHeight-tiles.TwoRow.OutputHeight; outY += tiles.TwoRow.OutputHeight {
		fn(outY, tiles.TwoRow)
	}
	for ; outY < outputHeight; outY += tiles.OneRow.OutputHeight {
		fn(outY, tiles.OneRow)
	}
}

// multiRow computes tile.OutputHeight full-width output rows. When shuffling,
// each full tile width is repacked ShuffleGroup channels at a time and the
// channels past the last full group are read directly. The columns past the
// last full tile are always read directly.
func (c *convCall) multiRow(input []uint8, inPos, outPos int, tile ShuffleTileSpec, scratch *Scratch) {
	outX := 0
	if c.cfg.UseShuffle(tile, c.inputWidth, c.outputDepth) {
		shuffleRowSize := ShuffleGroup * tile.InputWidth
		for ; outX <= c.outputWidth-tile.OutputWidth; outX += tile.OutputWidth {
			in, out, depth := inPos, outPos, 0
			for ; depth <= c.outputDepth-ShuffleGroup; depth += ShuffleGroup {
				ShuffleInput(scratch[:], input[in:], c.inputDepth, c.inputRowSize,
					ShuffleGroup, tile.InputWidth, tile.InputHeight)
				c.throughDepth(scratch[:], 0, ShuffleGroup, shuffleRowSize, depth, out,
					0, ShuffleGroup, tile.OutputHeight, tile.OutputWidth)
				in += ShuffleGroup
				out += ShuffleGroup
			}
			c.throughDepth(input, in, c.inputDepth, c.inputRowSize, depth, out,
				depth, c.outputDepth, tile.OutputHeight, tile.OutputWidth)

			inPos += tile.OutputWidth * c.stride * c.inputDepth
			outPos += tile.OutputWidth * c.outputDepth
		}
	}
	if rest := c.outputWidth - outX; rest > 0 {
		c.throughDepth(input, inPos, c.inputDepth, c.inputRowSize, 0, outPos,
			0, c.outputDepth, tile.OutputHeight, rest)
	}
}
