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
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ajroetker/go-highway-dwconv/hwy/contrib/dwconv"
	"github.com/ajroetker/go-highway-dwconv/internal/cpuinfo"
)

func newInfoCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print detected CPU features and the kernel configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := cpuinfo.Detect()
			title := cases.Title(language.English)

			cmd.Printf("GOOS: %s\n", p.GOOS)
			cmd.Printf("GOARCH: %s\n", p.GOARCH)
			cmd.Printf("NumCPU: %d\n", p.NumCPU)
			cmd.Printf("Highway dispatch: %s (%d bytes)\n", title.String(p.Dispatch), p.Width)
			if p.ForcedOff {
				cmd.Println("HWY_NO_SIMD is set")
			}
			cmd.Printf("Platform key: %s\n", p.Key())

			present := lo.FilterMap(p.Features, func(f cpuinfo.Feature, _ int) (string, bool) {
				return f.Name, f.Present
			})
			missing := lo.FilterMap(p.Features, func(f cpuinfo.Feature, _ int) (string, bool) {
				return f.Name, !f.Present
			})
			cmd.Printf("Features: %s\n", strings.Join(present, " "))
			if len(missing) > 0 {
				cmd.Printf("Missing: %s\n", strings.Join(missing, " "))
			}

			configs, err := root.tunedConfigs()
			if err != nil {
				return err
			}
			cmd.Println()
			for _, stride := range []int{1, 2} {
				cfg := configs[stride]
				cmd.Printf("Stride %d shuffle: %s (depth > %d or width > %d)\n", stride,
					title.String(cfg.Shuffle.String()), cfg.ShuffleDepthThreshold, cfg.ShuffleWidthThreshold)
				cmd.Printf("Stride %d tiles: %s\n", stride, formatTiles(cfg.Tiles(stride)))
			}
			cmd.Printf("Scratch: %d bytes\n", dwconv.ScratchSize)
			return nil
		},
	}
}

func formatTiles(ts dwconv.TileSet) string {
	tiles := []dwconv.ShuffleTileSpec{ts.OneRow, ts.TwoRow, ts.FourRow, ts.EightRow}
	return strings.Join(lo.Map(tiles, func(t dwconv.ShuffleTileSpec, _ int) string {
		return fmt.Sprintf("%dx%d", t.OutputWidth, t.OutputHeight)
	}), " ")
}
