package fixedwidth

// Split extracts one field from record at the caller-supplied (start,
// length) offset, trimming pad bytes per alignment. It is a pure function
// of its arguments. The returned slice borrows record — no copy is made.
func Split(record []byte, start, length int, pad byte, alignment Alignment) ([]byte, error) {
	if start < 0 || length < 0 {
		return nil, &RecordError{Sample: truncateSample(record), Err: ErrFieldOutOfBounds}
	}
	if start >= len(record) {
		return record[0:0], nil
	}
	if length > len(record)-start {
		length = len(record) - start
	}
	field := record[start : start+length]
	return trimField(field, pad, alignment), nil
}

// trimField strips pad bytes from the edges named by alignment: Left
// strips trailing pad (the value was left-justified, so padding trails
// it), Right strips leading pad, Center strips both, None trims nothing.
func trimField(field []byte, pad byte, alignment Alignment) []byte {
	switch alignment {
	case AlignLeft:
		return trimTrailing(field, pad)
	case AlignRight:
		return trimLeading(field, pad)
	case AlignCenter:
		return trimLeading(trimTrailing(field, pad), pad)
	default: // AlignNone
		return field
	}
}

func trimLeading(field []byte, pad byte) []byte {
	i := 0
	for i < len(field) && field[i] == pad {
		i++
	}
	return field[i:]
}

func trimTrailing(field []byte, pad byte) []byte {
	i := len(field)
	for i > 0 && field[i-1] == pad {
		i--
	}
	return field[:i]
}

// Field resolves a field's pad/alignment against a FieldSpec's declared
// overrides and opts's defaults, then splits record accordingly — the
// convenience path RecordView.Field uses.
func Field(record []byte, spec FieldSpec, opts ParserOptions) ([]byte, error) {
	pad, alignment := spec.resolve(opts)
	return Split(record, spec.Start, spec.Length, pad, alignment)
}
