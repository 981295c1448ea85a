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

package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func collectChunks(t *testing.T, e Executor, n int) [][2]int {
	t.Helper()
	var mu sync.Mutex
	var chunks [][2]int
	e.ParallelFor(n, func(start, end int) {
		mu.Lock()
		chunks = append(chunks, [2]int{start, end})
		mu.Unlock()
	})
	return chunks
}

func TestParallelForCoversRange(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	for _, n := range []int{1, 3, 4, 5, 17, 100} {
		seen := make([]int32, n)
		pool.ParallelFor(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			require.Equalf(t, int32(1), c, "n=%d index %d visited %d times", n, i, c)
		}
	}
}

func TestParallelForChunkCount(t *testing.T) {
	pool := New(3)
	defer pool.Close()

	require.Len(t, collectChunks(t, pool, 10), 3)
	require.Len(t, collectChunks(t, pool, 2), 2)
	require.Empty(t, collectChunks(t, pool, 0))
}

func TestClosedPoolRunsInline(t *testing.T) {
	pool := New(8)
	pool.Close()
	require.Equal(t, [][2]int{{0, 9}}, collectChunks(t, pool, 9))
}

func TestInline(t *testing.T) {
	require.Equal(t, [][2]int{{0, 5}}, collectChunks(t, Inline{}, 5))
	require.Equal(t, 1, Inline{}.NumWorkers())
}

func TestNewClampsWorkers(t *testing.T) {
	require.Equal(t, 1, New(0).NumWorkers())
	require.Equal(t, 1, New(-4).NumWorkers())
	require.Equal(t, 6, New(6).NumWorkers())
}
