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

package hwy

import "unsafe"

// SignedInts is the set of signed integer lane types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is the set of unsigned integer lane types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Lanes is the set of element types a Vec can hold.
type Lanes interface {
	SignedInts | UnsignedInts
}

// Vec is a variable-width vector of lanes. Its width follows the detected
// dispatch level, see MaxLanes.
type Vec[T Lanes] struct {
	data []T
}

// NumLanes returns the number of lanes held by v.
func (v Vec[T]) NumLanes() int {
	return len(v.data)
}

// MaxLanes returns the number of T lanes in a vector of CurrentWidth bytes.
func MaxLanes[T Lanes]() int {
	var zero T
	return CurrentWidth() / int(unsafe.Sizeof(zero))
}

// NumLanes is an alias of MaxLanes kept for symmetry with Vec.NumLanes.
func NumLanes[T Lanes]() int {
	return MaxLanes[T]()
}
