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
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-highway-dwconv/hwy/contrib/dwconv"
	"github.com/ajroetker/go-highway-dwconv/internal/cpuinfo"
	"github.com/ajroetker/go-highway-dwconv/internal/tuning"
)

type rootOptions struct {
	dbDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "dwconv",
		Short:        "Quantized 3x3 depthwise convolution diagnostics",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dbDir, "db", defaultDBDir(), "tuning database directory")

	cmd.AddCommand(
		newInfoCmd(opts),
		newVerifyCmd(opts),
		newTuneCmd(opts),
		newShowCmd(opts),
	)
	return cmd
}

func defaultDBDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "go-highway-dwconv")
	}
	return filepath.Join(dir, "go-highway-dwconv", "tuning")
}

func (o *rootOptions) openStore() (*tuning.Store, error) {
	if err := os.MkdirAll(o.dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", o.dbDir, err)
	}
	return tuning.Open(o.dbDir)
}

// tunedConfigs returns the tiling configuration per stride, with any
// thresholds stored for this platform applied. A missing database yields
// the defaults and is not created.
func (o *rootOptions) tunedConfigs() (map[int]dwconv.TilingConfig, error) {
	configs := map[int]dwconv.TilingConfig{
		1: dwconv.DefaultTilingConfig(),
		2: dwconv.DefaultTilingConfig(),
	}
	if _, err := os.Stat(o.dbDir); errors.Is(err, fs.ErrNotExist) {
		return configs, nil
	}
	store, err := tuning.Open(o.dbDir)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	key := cpuinfo.PlatformKey()
	for stride := range configs {
		cfg, err := store.Config(key, stride)
		if err != nil {
			return nil, fmt.Errorf("load tuning for %s stride %d: %w", key, stride, err)
		}
		configs[stride] = cfg
	}
	return configs, nil
}
