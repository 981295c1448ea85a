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

package tuning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-highway-dwconv/hwy/contrib/dwconv"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func sampleRecord(platform string, depth, width int) Record {
	return Record{
		Platform:              platform,
		Stride:                1,
		ShuffleDepthThreshold: depth,
		ShuffleWidthThreshold: width,
		DepthProbes:           []Probe{{Height: 12, Width: 32, Depth: 64, DirectNs: 900, ShuffledNs: 800}},
		MeasuredAt:            time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStoreSaveLoad(t *testing.T) {
	s := newTestStore(t)
	want := sampleRecord("linux-amd64-avx2", 63, 128)
	require.NoError(t, s.Save(want))

	got, err := s.Load("linux-amd64-avx2", 1)
	require.NoError(t, err)
	require.Equal(t, want, got)

	// Saving again replaces the record.
	want.ShuffleWidthThreshold = 256
	require.NoError(t, s.Save(want))
	got, err = s.Load("linux-amd64-avx2", 1)
	require.NoError(t, err)
	require.Equal(t, 256, got.ShuffleWidthThreshold)
}

func TestStoreLoadMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load("nowhere", 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreSaveRejects(t *testing.T) {
	s := newTestStore(t)
	require.Error(t, s.Save(Record{Stride: 1}))

	for _, stride := range []int{0, 3} {
		r := sampleRecord("linux-amd64-avx2", 63, 128)
		r.Stride = stride
		require.Errorf(t, s.Save(r), "stride %d", stride)
	}
}

func TestStoreStridesAreSeparate(t *testing.T) {
	s := newTestStore(t)
	one := sampleRecord("linux-arm64-neon", 63, 128)
	two := sampleRecord("linux-arm64-neon", 127, 256)
	two.Stride = 2
	require.NoError(t, s.Save(one))
	require.NoError(t, s.Save(two))

	got, err := s.Load("linux-arm64-neon", 1)
	require.NoError(t, err)
	require.Equal(t, one, got)
	got, err = s.Load("linux-arm64-neon", 2)
	require.NoError(t, err)
	require.Equal(t, two, got)

	cfg, err := s.Config("linux-arm64-neon", 2)
	require.NoError(t, err)
	require.Equal(t, 127, cfg.ShuffleDepthThreshold)
	require.Equal(t, 256, cfg.ShuffleWidthThreshold)

	records, err := s.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 1, records[0].Stride)
	require.Equal(t, 2, records[1].Stride)
}

func TestStoreList(t *testing.T) {
	s := newTestStore(t)
	records, err := s.List()
	require.NoError(t, err)
	require.Empty(t, records)

	for _, p := range []string{"linux-arm64-neon", "darwin-arm64-neon", "linux-amd64-avx512"} {
		require.NoError(t, s.Save(sampleRecord(p, 64, 150)))
	}
	records, err = s.List()
	require.NoError(t, err)
	require.Len(t, records, 3)

	var platforms []string
	for _, r := range records {
		platforms = append(platforms, r.Platform)
	}
	require.Equal(t, []string{"darwin-arm64-neon", "linux-amd64-avx512", "linux-arm64-neon"}, platforms)
}

func TestStoreConfig(t *testing.T) {
	s := newTestStore(t)

	cfg, err := s.Config("linux-amd64-avx2", 1)
	require.NoError(t, err)
	require.Equal(t, dwconv.DefaultTilingConfig(), cfg)

	require.NoError(t, s.Save(sampleRecord("linux-amd64-avx2", 127, 64)))
	cfg, err = s.Config("linux-amd64-avx2", 1)
	require.NoError(t, err)
	require.Equal(t, 127, cfg.ShuffleDepthThreshold)
	require.Equal(t, 64, cfg.ShuffleWidthThreshold)
	require.NoError(t, cfg.Validate())
}

func TestStoreOpenDir(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(sampleRecord("linux-arm64-sve", 63, 150)))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load("linux-arm64-sve", 1)
	require.NoError(t, err)
	require.Equal(t, 63, got.ShuffleDepthThreshold)
}

func TestRecordApply(t *testing.T) {
	base := dwconv.DefaultTilingConfig()
	base.Shuffle = dwconv.ShuffleNever
	cfg := sampleRecord("x", 10, 20).Apply(base)
	require.Equal(t, 10, cfg.ShuffleDepthThreshold)
	require.Equal(t, 20, cfg.ShuffleWidthThreshold)
	require.Equal(t, dwconv.ShuffleAuto, cfg.Shuffle)
	require.Equal(t, base.Stride1, cfg.Stride1)
}
