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
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-highway-dwconv/internal/cpuinfo"
	"github.com/ajroetker/go-highway-dwconv/internal/tuning"
)

func newTuneCmd(root *rootOptions) *cobra.Command {
	tuner := tuning.DefaultTuner()
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Measure shuffle thresholds and store them for this platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key := cpuinfo.PlatformKey()
			cmd.Printf("Tuning %s ...\n", key)
			r, err := tuner.Run(cmd.Context(), key)
			if err != nil {
				return err
			}
			printRecord(cmd, r)
			if dryRun {
				return nil
			}

			store, err := root.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Save(r); err != nil {
				return err
			}
			cmd.Printf("Saved to %s\n", root.dbDir)
			return nil
		},
	}
	cmd.Flags().Int64Var(&tuner.Seed, "seed", tuner.Seed, "random seed for probe data")
	cmd.Flags().IntVar(&tuner.Iterations, "iterations", tuner.Iterations, "timed runs per probe, best is kept")
	cmd.Flags().IntVar(&tuner.Stride, "stride", tuner.Stride, "stride of the probe shapes")
	cmd.Flags().IntSliceVar(&tuner.Depths, "depths", tuner.Depths, "depths to probe")
	cmd.Flags().IntSliceVar(&tuner.Widths, "widths", tuner.Widths, "input widths to probe")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "measure without saving")
	return cmd
}
