package tabdsv

import "testing"

func naiveMasks16(data []uint16, quoteByte, delimiter uint16) (quote, sep, cr, nl uint64) {
	for i, u := range data {
		switch u {
		case quoteByte:
			quote |= 1 << uint(i)
		case delimiter:
			sep |= 1 << uint(i)
		case '\r':
			cr |= 1 << uint(i)
		case '\n':
			nl |= 1 << uint(i)
		}
	}
	return
}

func TestGenerateMasks16MatchesNaive(t *testing.T) {
	var data [simdChunkSize16]uint16
	pattern := []rune(`a,"b",c` + "\r\n" + `d,e,"f""g"` + "\r\n")
	for i := range data {
		data[i] = uint16(pattern[i%len(pattern)])
	}
	wantQ, wantS, wantCR, wantNL := naiveMasks16(data[:], '"', ',')
	gotQ, gotS, gotCR, gotNL := generateMasks16(data[:], '"', ',')
	if gotQ != wantQ || gotS != wantS || gotCR != wantCR || gotNL != wantNL {
		t.Fatalf("16-bit masks mismatch:\nquote got=%v want=%v\nsep got=%v want=%v\ncr got=%v want=%v\nnl got=%v want=%v",
			gotQ, wantQ, gotS, wantS, gotCR, wantCR, gotNL, wantNL)
	}
}

func TestGenerateMasks16PaddedShortInput(t *testing.T) {
	data := []uint16{'a', ',', 'b', ',', 'c'}
	quote, sep, _, _, valid := generateMasks16Padded(data, '"', ',')
	if valid != len(data) {
		t.Fatalf("validLanes = %d, want %d", valid, len(data))
	}
	if quote != 0 {
		t.Fatalf("expected no quote bits, got %v", quote)
	}
	wantSep := uint64(0)
	for i, u := range data {
		if u == ',' {
			wantSep |= 1 << uint(i)
		}
	}
	if sep != wantSep {
		t.Fatalf("sep = %v, want %v", sep, wantSep)
	}
}

func TestGenerateMasks16PaddedEmpty(t *testing.T) {
	quote, sep, cr, nl, valid := generateMasks16Padded(nil, '"', ',')
	if quote|sep|cr|nl != 0 || valid != 0 {
		t.Fatalf("expected all-zero result for empty input, got quote=%d sep=%d cr=%d nl=%d valid=%d", quote, sep, cr, nl, valid)
	}
}
