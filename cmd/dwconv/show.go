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
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-highway-dwconv/internal/cpuinfo"
	"github.com/ajroetker/go-highway-dwconv/internal/tuning"
)

func newShowCmd(root *rootOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print stored tuning records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := root.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if !all {
				key := cpuinfo.PlatformKey()
				for _, stride := range []int{1, 2} {
					r, err := store.Load(key, stride)
					if errors.Is(err, tuning.ErrNotFound) {
						cmd.Printf("No record for %s stride %d, defaults apply. Run \"dwconv tune --stride %d\".\n",
							key, stride, stride)
						continue
					}
					if err != nil {
						return err
					}
					printRecord(cmd, r)
				}
				return nil
			}

			records, err := store.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				cmd.Println("No records.")
			}
			for _, r := range records {
				printRecord(cmd, r)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "show every platform")
	return cmd
}

func printRecord(cmd *cobra.Command, r tuning.Record) {
	cmd.Printf("%s (stride %d, measured %s)\n", r.Platform, r.Stride, r.MeasuredAt.Format("2006-01-02 15:04"))
	cmd.Printf("  shuffle when depth > %d or width > %d\n", r.ShuffleDepthThreshold, r.ShuffleWidthThreshold)
	cmd.Printf("  depth probes: %s\n", formatProbes(r.DepthProbes, func(p tuning.Probe) int { return p.Depth }))
	cmd.Printf("  width probes: %s\n", formatProbes(r.WidthProbes, func(p tuning.Probe) int { return p.Width }))
}

func formatProbes(probes []tuning.Probe, size func(tuning.Probe) int) string {
	return strings.Join(lo.Map(probes, func(p tuning.Probe, _ int) string {
		winner := "direct"
		if p.ShuffleWins() {
			winner = "shuffled"
		}
		return fmt.Sprintf("%d:%s", size(p), winner)
	}), " ")
}
