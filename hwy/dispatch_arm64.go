//go:build arm64

package hwy

import "golang.org/x/sys/cpu"

func init() {
	if NoSimdEnv() {
		setScalarMode()
		return
	}

	detectCPUFeatures()
}

func detectCPUFeatures() {
	// ASIMD is mandatory on arm64; SVE is reported but the vector width used
	// for lane math stays at 128 bits because SVE lengths are not known here.
	currentLevel = DispatchNEON
	currentWidth = 16
	currentName = "neon"
	if cpu.ARM64.HasSVE {
		currentLevel = DispatchSVE
		currentName = "sve"
	}
}
