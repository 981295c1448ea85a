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

// Package cpuinfo reports the CPU features detected by Go and the Highway
// dispatch target, and derives the platform key used to store tuning
// results.
package cpuinfo

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/ajroetker/go-highway-dwconv/hwy"
)

// Feature is one detected CPU capability.
type Feature struct {
	Name    string
	Present bool
	Note    string
}

// Platform describes the machine and the selected dispatch target.
type Platform struct {
	GOOS      string
	GOARCH    string
	NumCPU    int
	Level     hwy.DispatchLevel
	Width     int
	Dispatch  string
	Features  []Feature
	ForcedOff bool
}

// Detect returns the current platform.
func Detect() Platform {
	return Platform{
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		Level:     hwy.CurrentLevel(),
		Width:     hwy.CurrentWidth(),
		Dispatch:  hwy.CurrentName(),
		Features:  Features(runtime.GOARCH),
		ForcedOff: hwy.NoSimdEnv(),
	}
}

// Key identifies configurations that should share tuning results.
func (p Platform) Key() string {
	return fmt.Sprintf("%s-%s-%s", p.GOOS, p.GOARCH, p.Dispatch)
}

// PlatformKey returns Detect().Key().
func PlatformKey() string {
	return Detect().Key()
}

// Features lists the golang.org/x/sys/cpu flags relevant to goarch.
// Unknown architectures have none.
func Features(goarch string) []Feature {
	switch goarch {
	case "arm64":
		return []Feature{
			{"ASIMD", cpu.ARM64.HasASIMD, "NEON baseline"},
			{"FP", cpu.ARM64.HasFP, "Floating point"},
			{"ASIMDDP", cpu.ARM64.HasASIMDDP, "Dot product"},
			{"ASIMDRDM", cpu.ARM64.HasASIMDRDM, "Rounding double multiply"},
			{"SVE", cpu.ARM64.HasSVE, "Scalable Vector Extension"},
			{"SVE2", cpu.ARM64.HasSVE2, ""},
			{"ATOMICS", cpu.ARM64.HasATOMICS, "Large System Extensions"},
		}
	case "amd64":
		return []Feature{
			{"SSE2", cpu.X86.HasSSE2, ""},
			{"SSSE3", cpu.X86.HasSSSE3, ""},
			{"SSE41", cpu.X86.HasSSE41, ""},
			{"AVX", cpu.X86.HasAVX, ""},
			{"AVX2", cpu.X86.HasAVX2, ""},
			{"AVX512F", cpu.X86.HasAVX512F, ""},
			{"AVX512BW", cpu.X86.HasAVX512BW, ""},
			{"AVX512VNNI", cpu.X86.HasAVX512VNNI, "Integer dot product"},
		}
	}
	return nil
}
