//go:build !(goexperiment.simd && amd64)

package tabdsv

import "github.com/klauspost/cpuid/v2"

// useAVX512 is always false outside the goexperiment.simd+amd64 build: the
// archsimd vector intrinsics this module uses for the 64-byte chunk scan
// are only available under that experiment. vectorMaskFunc stays nil and
// generateMasks falls back to the portable SWAR path in masks.go.
var useAVX512 = false

// vectorMaskFunc is left unset here; see simd_detect_amd64exp.go.

func init() {
	// cpuid is used only as the diagnostic signal backing
	// ParserOptions.UseSIMD's default — AVX2 has no portable Go expression
	// without assembly, so whenever UseSIMD is on the scan runs masks.go's
	// fixed 8-byte SWAR fallback; this CPU check only decides whether that
	// path is switched on by default.
	simdAvailable = cpuid.CPU.Supports(cpuid.AVX2) || cpuid.CPU.Supports(cpuid.SSE42)
}
