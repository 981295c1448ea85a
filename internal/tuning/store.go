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

// Package tuning measures the shuffle thresholds of the depthwise kernel on
// the current machine and persists them per platform in a BadgerDB store.
package tuning

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/ajroetker/go-highway-dwconv/hwy/contrib/dwconv"
)

const keyPrefix = "tuning/"

// ErrNotFound is returned by Load when no record exists for a platform.
var ErrNotFound = errors.New("tuning: no record for platform")

// Probe is one timed shape.
type Probe struct {
	Height     int   `json:"height"`
	Width      int   `json:"width"`
	Depth      int   `json:"depth"`
	DirectNs   int64 `json:"direct_ns"`
	ShuffledNs int64 `json:"shuffled_ns"`
}

// ShuffleWins reports whether the shuffled path was faster.
func (p Probe) ShuffleWins() bool {
	return p.ShuffledNs < p.DirectNs
}

// Record is the tuning result for one platform.
type Record struct {
	Platform              string    `json:"platform"`
	Stride                int       `json:"stride"`
	ShuffleDepthThreshold int       `json:"shuffle_depth_threshold"`
	ShuffleWidthThreshold int       `json:"shuffle_width_threshold"`
	DepthProbes           []Probe   `json:"depth_probes"`
	WidthProbes           []Probe   `json:"width_probes"`
	MeasuredAt            time.Time `json:"measured_at"`
}

// Apply returns cfg with the record's thresholds and automatic shuffling.
// TilingConfig holds one threshold pair, so the result is meant for calls at
// r.Stride; Store.Config selects the record per stride.
func (r Record) Apply(cfg dwconv.TilingConfig) dwconv.TilingConfig {
	cfg.ShuffleDepthThreshold = r.ShuffleDepthThreshold
	cfg.ShuffleWidthThreshold = r.ShuffleWidthThreshold
	cfg.Shuffle = dwconv.ShuffleAuto
	return cfg
}

// Store wraps BadgerDB for tuning records.
type Store struct {
	db *badger.DB
}

// Open opens or creates a store in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	return open(opts)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("tuning: open store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores r under its platform and stride, replacing any previous
// record for that pair.
func (s *Store) Save(r Record) error {
	if r.Platform == "" {
		return errors.New("tuning: record has no platform")
	}
	if r.Stride != 1 && r.Stride != 2 {
		return fmt.Errorf("tuning: record for %s has stride %d, want 1 or 2", r.Platform, r.Stride)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(r.Platform, r.Stride), data)
	})
}

func recordKey(platform string, stride int) []byte {
	return fmt.Appendf(nil, "%s%s/s%d", keyPrefix, platform, stride)
}

// Load returns the record for platform and stride, or ErrNotFound.
func (s *Store) Load(platform string, stride int) (Record, error) {
	var r Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(platform, stride))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})
	return r, err
}

// List returns every record ordered by platform, then stride.
func (s *Store) List() ([]Record, error) {
	var records []Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var r Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				return fmt.Errorf("tuning: decode %s: %w", it.Item().Key(), err)
			}
			records = append(records, r)
		}
		return nil
	})
	return records, err
}

// Config returns the default tiling configuration with the thresholds
// stored for platform and stride applied. Without a record it returns the
// defaults.
func (s *Store) Config(platform string, stride int) (dwconv.TilingConfig, error) {
	cfg := dwconv.DefaultTilingConfig()
	r, err := s.Load(platform, stride)
	if errors.Is(err, ErrNotFound) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	return r.Apply(cfg), nil
}
