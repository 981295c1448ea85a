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

// Package workerpool provides a reusable executor that splits index ranges
// across a bounded number of goroutines.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.ParallelFor(batches, func(start, end int) {
//	    for b := start; b < end; b++ {
//	        // work on batch b
//	    }
//	})
package workerpool

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Executor runs fn over disjoint [start, end) chunks covering [0, n) and
// returns once every chunk has finished.
type Executor interface {
	ParallelFor(n int, fn func(start, end int))
	NumWorkers() int
}

// Pool is an Executor with a fixed worker limit.
type Pool struct {
	workers int
	closed  atomic.Bool
}

// New creates a pool running at most workers chunks concurrently.
// workers < 1 is treated as 1.
func New(workers int) *Pool {
	return &Pool{workers: max(workers, 1)}
}

// NumWorkers returns the concurrency limit.
func (p *Pool) NumWorkers() int {
	return p.workers
}

// Close marks the pool closed. Later ParallelFor calls run inline on the
// calling goroutine.
func (p *Pool) Close() {
	p.closed.Store(true)
}

// ParallelFor implements Executor. The range is cut into at most
// NumWorkers contiguous chunks of near-equal size.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	chunks := min(p.workers, n)
	if chunks == 1 || p.closed.Load() {
		fn(0, n)
		return
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	per := n / chunks
	extra := n % chunks
	start := 0
	for c := range chunks {
		end := start + per
		if c < extra {
			end++
		}
		s, e := start, end
		g.Go(func() error {
			fn(s, e)
			return nil
		})
		start = end
	}
	_ = g.Wait()
}

// Inline is an Executor that runs everything on the calling goroutine.
type Inline struct{}

// ParallelFor implements Executor.
func (Inline) ParallelFor(n int, fn func(start, end int)) {
	if n > 0 {
		fn(0, n)
	}
}

// NumWorkers implements Executor.
func (Inline) NumWorkers() int { return 1 }
