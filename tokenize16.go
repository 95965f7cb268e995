package tabdsv

// tokenize16.go is the UTF-16 (16-bit code unit) counterpart of
// tokenize.go: every function here is tokenize.go's own body rewritten
// against []uint16 instead of []byte, the monomorphized-specialization
// approach spec §9 calls out for a tokenizer generic over an
// "ASCII-comparable unit" of width 8 or 16 bits. It shares
// RowParseResult/ColumnOffset with the byte path — Start/Length are
// counted in uint16 elements here, which is exactly what lets a caller
// compare column counts and field lengths across encodings directly
// (the "encoding agnosticism" round-trip law in spec §8).
//
// scan16.go's generateMasks16/generateMasks16Padded (previously exercised
// only by their own mask-math unit tests) are the structural fast path
// this file's peekRowBoundary16 calls, mirroring how tokenize.go's
// peekRowBoundary calls masks.go's generateMasks/generateMasksPadded.

// tokenizeRow16 is the []uint16 counterpart of tokenizeRow.
func tokenizeRow16(buf []uint16, opts *ParserOptions, cols *[]ColumnOffset, atEOF bool) (RowParseResult, error) {
	*cols = (*cols)[:0]

	quote16 := uint16(opts.Quote)
	delimiter16 := uint16(opts.Delimiter)

	if opts.HasComment {
		ws := skipLeadingWhitespace16(buf)
		if ws < len(buf) && buf[ws] == uint16(opts.Comment) {
			consumed, nlCount, complete := consumeCommentLine16(buf, atEOF)
			if !complete {
				return RowParseResult{}, errIncompleteRow
			}
			return RowParseResult{IsComment: true, BytesConsumed: consumed, NewlineCount: nlCount}, nil
		}
	}

	if opts.UseSIMD && !opts.HasEscape {
		rowLen, consumed, quoted, incomplete := peekRowBoundary16(buf, opts.EnableQuotedFields, quote16, delimiter16, atEOF)
		if incomplete {
			return RowParseResult{}, errIncompleteRow
		}
		if !quoted {
			if err := splitSimpleRow16(buf[:rowLen], opts, cols); err != nil {
				return RowParseResult{}, err
			}
			return RowParseResult{
				ColumnCount:   len(*cols),
				RowLength:     rowLen,
				BytesConsumed: consumed,
				NewlineCount:  countLF16(buf[:consumed]),
			}, nil
		}
	}

	return tokenizeRowScalar16(buf, opts, cols, atEOF)
}

func skipLeadingWhitespace16(buf []uint16) int {
	i := 0
	for i < len(buf) && isASCIISpaceOrTab16(buf[i]) {
		i++
	}
	return i
}

func isASCIISpaceOrTab16(b uint16) bool { return b == ' ' || b == '\t' }

// consumeCommentLine16 mirrors consumeCommentLine over []uint16.
func consumeCommentLine16(buf []uint16, atEOF bool) (consumed, newlineCount int, complete bool) {
	i := 0
	for i < len(buf) && buf[i] != '\r' && buf[i] != '\n' {
		i++
	}
	if i >= len(buf) {
		if atEOF {
			return i, 0, true
		}
		return 0, 0, false
	}
	if buf[i] == '\r' {
		if i+1 < len(buf) {
			if buf[i+1] == '\n' {
				return i + 2, 1, true
			}
			return i + 1, 0, true
		}
		if atEOF {
			return i + 1, 0, true
		}
		return 0, 0, false
	}
	return i + 1, 1, true
}

func countLF16(buf []uint16) int {
	n := 0
	for _, b := range buf {
		if b == '\n' {
			n++
		}
	}
	return n
}

// peekRowBoundary16 mirrors peekRowBoundary, scanning chunk-by-chunk via
// scan16.go's mask generators over simdChunkSize16 uint16 lanes instead of
// simdChunkSize bytes.
func peekRowBoundary16(buf []uint16, quotingEnabled bool, quote, delimiter uint16, atEOF bool) (rowLen, consumed int, quoted, incomplete bool) {
	offset := 0
	for offset < len(buf) {
		end := offset + simdChunkSize16
		var quoteMask, crMask, nlMask uint64
		if end <= len(buf) {
			quoteMask, _, crMask, nlMask = generateMasks16(buf[offset:end], quote, delimiter)
		} else {
			quoteMask, _, crMask, nlMask, _ = generateMasks16Padded(buf[offset:], quote, delimiter)
			end = len(buf)
		}

		if quotingEnabled && quoteMask != 0 {
			qPos := trailingZeros(quoteMask)
			termMask := crMask | nlMask
			tPos := trailingZeros(termMask)
			if qPos <= tPos {
				return 0, 0, true, false
			}
		}

		term := crMask | nlMask
		if term != 0 {
			pos := trailingZeros(term)
			absPos := offset + pos
			isCR := crMask&(uint64(1)<<uint(pos)) != 0
			if isCR && absPos+1 >= len(buf) {
				if !atEOF {
					return 0, 0, false, true
				}
				return absPos, absPos + 1, false, false
			}
			if isCR && buf[absPos+1] == '\n' {
				return absPos, absPos + 2, false, false
			}
			return absPos, absPos + 1, false, false
		}

		offset = end
	}
	if !atEOF {
		return 0, 0, false, true
	}
	return len(buf), len(buf), false, false
}

// splitSimpleRow16 mirrors splitSimpleRow: row is known to contain no
// quote code units and already excludes the terminator.
func splitSimpleRow16(row []uint16, opts *ParserOptions, cols *[]ColumnOffset) error {
	start := 0
	delim := uint16(opts.Delimiter)
	for i := 0; i < len(row); i++ {
		if row[i] == delim {
			if err := appendColumn16(cols, start, i-start, opts, row); err != nil {
				return err
			}
			start = i + 1
		}
	}
	return appendColumn16(cols, start, len(row)-start, opts, row)
}

// appendColumn16 mirrors appendColumn over []uint16; the truncated error
// sample narrows each code unit to its low byte, which is lossless for
// the ASCII-range text the package's own error samples are meant to show.
func appendColumn16(cols *[]ColumnOffset, start, length int, opts *ParserOptions, buf []uint16) error {
	if len(*cols)+1 > opts.MaxColumns {
		return &ParseError{Err: ErrTooManyColumns}
	}
	end, err := overflowGuard(start, length)
	if err != nil {
		return &ParseError{Column: start + 1, Err: err}
	}
	if opts.HasMaxFieldLength && length > opts.MaxFieldLength {
		sampleEnd := end
		if sampleEnd > len(buf) {
			sampleEnd = len(buf)
		}
		sample := truncateSample(narrowUint16(buf[start:sampleEnd]))
		return &ParseError{Column: start + 1, Sample: sample, Err: ErrFieldTooLong}
	}
	*cols = append(*cols, ColumnOffset{Start: start, Length: length})
	return nil
}

// narrowUint16 converts a []uint16 slice to []byte by taking each
// element's low byte, used only to build ASCII-compatible error samples.
func narrowUint16(u []uint16) []byte {
	out := make([]byte, len(u))
	for i, v := range u {
		out[i] = byte(v)
	}
	return out
}

// tokenizeRowScalar16 mirrors tokenizeRowScalar's four-state quote FSM
// over []uint16.
func tokenizeRowScalar16(buf []uint16, opts *ParserOptions, cols *[]ColumnOffset, atEOF bool) (RowParseResult, error) {
	const (
		stFieldStart = iota
		stUnquoted
		stQuoted
		stQuotedClosed
	)

	quote16 := uint16(opts.Quote)
	delim16 := uint16(opts.Delimiter)
	var escape16 uint16
	if opts.HasEscape {
		escape16 = uint16(opts.Escape)
	}

	state := stFieldStart
	fieldStart := 0
	quoteOpenPos := -1
	pos := 0

	emit := func(end int) error {
		return appendColumn16(cols, fieldStart, end-fieldStart, opts, buf)
	}

	terminate := func(pos int, b uint16) (RowParseResult, error, bool) {
		if err := emit(pos); err != nil {
			return RowParseResult{}, err, true
		}
		consumed := pos + 1
		if b == '\r' {
			if pos+1 >= len(buf) {
				if !atEOF {
					return RowParseResult{}, errIncompleteRow, true
				}
			} else if buf[pos+1] == '\n' {
				consumed = pos + 2
			}
		}
		return RowParseResult{
			ColumnCount:   len(*cols),
			RowLength:     pos,
			BytesConsumed: consumed,
			NewlineCount:  countLF16(buf[:consumed]),
		}, nil, true
	}

	for pos < len(buf) {
		b := buf[pos]

		switch state {
		case stFieldStart:
			switch {
			case opts.EnableQuotedFields && b == quote16:
				state = stQuoted
				quoteOpenPos = pos
				pos++
			case b == delim16:
				if err := emit(pos); err != nil {
					return RowParseResult{}, err
				}
				fieldStart = pos + 1
				pos++
			case b == '\r' || b == '\n':
				if res, err, done := terminate(pos, b); done {
					return res, err
				}
			default:
				state = stUnquoted
				pos++
			}

		case stUnquoted:
			switch {
			case b == delim16:
				if err := emit(pos); err != nil {
					return RowParseResult{}, err
				}
				fieldStart = pos + 1
				state = stFieldStart
				pos++
			case b == '\r' || b == '\n':
				if res, err, done := terminate(pos, b); done {
					return res, err
				}
			default:
				pos++
			}

		case stQuoted:
			switch {
			case opts.HasEscape && b == escape16:
				if pos+1 >= len(buf) {
					if !atEOF {
						return RowParseResult{}, errIncompleteRow
					}
					pos++
				} else {
					next, err := overflowGuard(pos, 2)
					if err != nil {
						return RowParseResult{}, err
					}
					pos = next
				}
			case b == quote16:
				if pos+1 >= len(buf) {
					if !atEOF {
						return RowParseResult{}, errIncompleteRow
					}
					state = stQuotedClosed
					pos++
				} else if buf[pos+1] == quote16 {
					next, err := overflowGuard(pos, 2)
					if err != nil {
						return RowParseResult{}, err
					}
					pos = next
				} else {
					state = stQuotedClosed
					pos++
				}
			case b == '\r' || b == '\n':
				if !opts.AllowNewlinesInQuotes {
					end := quoteOpenPos + sampleLimit
					if end > len(buf) {
						end = len(buf)
					}
					return RowParseResult{}, &ParseError{
						Column: quoteOpenPos + 1,
						Sample: truncateSample(narrowUint16(buf[quoteOpenPos:end])),
						Err:    ErrNewlineInQuotes,
					}
				}
				pos++
			default:
				pos++
			}

		case stQuotedClosed:
			switch {
			case b == delim16:
				if err := emit(pos); err != nil {
					return RowParseResult{}, err
				}
				fieldStart = pos + 1
				state = stFieldStart
				pos++
			case b == '\r' || b == '\n':
				if res, err, done := terminate(pos, b); done {
					return res, err
				}
			default:
				// trailing garbage after a closing quote: lenient, included in the field.
				pos++
			}
		}
	}

	if !atEOF {
		return RowParseResult{}, errIncompleteRow
	}
	if state == stQuoted {
		return RowParseResult{}, &ParseError{
			Column: quoteOpenPos + 1,
			Sample: truncateSample(narrowUint16(buf[quoteOpenPos:])),
			Err:    ErrUnterminatedQuote,
		}
	}
	if err := emit(len(buf)); err != nil {
		return RowParseResult{}, err
	}
	return RowParseResult{
		ColumnCount:   len(*cols),
		RowLength:     len(buf),
		BytesConsumed: len(buf),
		NewlineCount:  countLF16(buf),
	}, nil
}

// TokenizeUTF16Row parses one row from a complete (atEOF) buffer of UTF-16
// code units, validating opts first. It exists to make spec §8's
// encoding-agnosticism round-trip law directly testable: parsing the same
// text as UTF-8 bytes (via tokenizeRow) and as UTF-16 code units (via this
// function) must yield identical column counts and identical field
// lengths. Unlike Reader, it holds no cursor/compaction state across
// calls — a streaming UTF-16 reader would be built around tokenizeRow16
// the same way Reader is built around tokenizeRow.
func TokenizeUTF16Row(buf []uint16, opts ParserOptions) (RowParseResult, []ColumnOffset, error) {
	if err := opts.Validate(); err != nil {
		return RowParseResult{}, nil, err
	}
	var cols []ColumnOffset
	res, err := tokenizeRow16(buf, &opts, &cols, true)
	if err != nil {
		return RowParseResult{}, nil, err
	}
	out := make([]ColumnOffset, len(cols))
	copy(out, cols)
	return res, out, nil
}
