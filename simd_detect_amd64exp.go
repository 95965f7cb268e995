//go:build goexperiment.simd && amd64

package tabdsv

import (
	"simd/archsimd"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// useAVX512 gates the vectorized mask generator. All three features are
// required: AVX512F (foundation), AVX512BW (byte/word ops — ToBits() lowers
// to VPMOVB2M), AVX512VL (128/256-bit support with AVX-512 instructions).
var useAVX512 bool

func init() {
	useAVX512 = cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW && cpu.X86.HasAVX512VL
	simdAvailable = useAVX512
	if useAVX512 {
		vectorMaskFunc = generateMasksAVX512
	}
}

// generateMasksAVX512 computes the four structural-character bitmasks for
// one simdChunkSize-byte chunk using 256-bit vector compares. Precondition:
// data is at least simdChunkSize bytes.
func generateMasksAVX512(data []byte, quoteByte, delimiter byte) (quote, sep, cr, nl uint64) {
	quoteCmp := archsimd.BroadcastInt8x32(int8(quoteByte))
	sepCmp := archsimd.BroadcastInt8x32(int8(delimiter))
	crCmp := archsimd.BroadcastInt8x32('\r')
	nlCmp := archsimd.BroadcastInt8x32('\n')

	low := archsimd.LoadInt8x32((*[simdHalfChunk]int8)(unsafe.Pointer(&data[0])))
	quoteLow := low.Equal(quoteCmp).ToBits()
	sepLow := low.Equal(sepCmp).ToBits()
	crLow := low.Equal(crCmp).ToBits()
	nlLow := low.Equal(nlCmp).ToBits()

	high := archsimd.LoadInt8x32((*[simdHalfChunk]int8)(unsafe.Pointer(&data[simdHalfChunk])))
	quoteHigh := high.Equal(quoteCmp).ToBits()
	sepHigh := high.Equal(sepCmp).ToBits()
	crHigh := high.Equal(crCmp).ToBits()
	nlHigh := high.Equal(nlCmp).ToBits()

	quote = uint64(quoteLow) | uint64(quoteHigh)<<32
	sep = uint64(sepLow) | uint64(sepHigh)<<32
	cr = uint64(crLow) | uint64(crHigh)<<32
	nl = uint64(nlLow) | uint64(nlHigh)<<32
	return
}
