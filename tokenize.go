package tabdsv

// RowParseResult is the tokenizer's per-call output: column_count is len
// after the call, row_length is the row's byte length excluding its
// terminator, bytes_consumed includes the terminator, and newline_count
// is the number of LF bytes within bytes_consumed.
type RowParseResult struct {
	ColumnCount   int
	RowLength     int
	BytesConsumed int
	NewlineCount  int
	IsComment     bool
}

// tokenizeRow consumes one logical row from the front of buf, appending
// its column offsets to *cols (which the caller must reset first) and
// reporting how many bytes were consumed. It never looks past the row it
// returns, so the caller can feed it arbitrary suffixes of a larger
// buffer.
//
// When SIMD is advertised and no escape character is configured, the
// common "no quotes anywhere in this row" case is detected with a
// chunked vector/SWAR scan (peekRowBoundary) and split without ever
// invoking the quote state machine; any row containing a quote byte, or
// any row parsed with an escape character configured, goes through the
// scalar reference implementation (tokenizeRowScalar), which is also the
// sole source of truth for quote-related error reporting.
//
// atEOF tells the tokenizer whether buf holds all remaining input. When
// false and buf runs out before a row terminator is found, the tokenizer
// returns errIncompleteRow instead of guessing: the caller (Reader) is
// expected to pull more bytes and retry with the same logical row.
func tokenizeRow(buf []byte, opts *ParserOptions, cols *[]ColumnOffset, atEOF bool) (RowParseResult, error) {
	*cols = (*cols)[:0]

	if opts.HasComment {
		ws := skipLeadingWhitespace(buf)
		if ws < len(buf) && buf[ws] == opts.Comment {
			consumed, nlCount, complete := consumeCommentLine(buf, atEOF)
			if !complete {
				return RowParseResult{}, errIncompleteRow
			}
			return RowParseResult{IsComment: true, BytesConsumed: consumed, NewlineCount: nlCount}, nil
		}
	}

	if opts.UseSIMD && !opts.HasEscape {
		rowLen, consumed, quoted, incomplete := peekRowBoundary(buf, opts.EnableQuotedFields, opts.Quote, opts.Delimiter, atEOF)
		if incomplete {
			return RowParseResult{}, errIncompleteRow
		}
		if !quoted {
			if err := splitSimpleRow(buf[:rowLen], opts, cols); err != nil {
				return RowParseResult{}, err
			}
			return RowParseResult{
				ColumnCount:   len(*cols),
				RowLength:     rowLen,
				BytesConsumed: consumed,
				NewlineCount:  countLF(buf[:consumed]),
			}, nil
		}
	}

	return tokenizeRowScalar(buf, opts, cols, atEOF)
}

// skipLeadingWhitespace returns the count of leading ASCII space/tab bytes.
func skipLeadingWhitespace(buf []byte) int {
	i := 0
	for i < len(buf) && isASCIISpaceOrTab(buf[i]) {
		i++
	}
	return i
}

// consumeCommentLine consumes a comment row: everything up to and
// including the next CR, LF, or CRLF (or to EOF if atEOF and none is
// found). complete is false when buf runs out exactly where a CRLF could
// still be split across the next fill.
func consumeCommentLine(buf []byte, atEOF bool) (consumed, newlineCount int, complete bool) {
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

func countLF(buf []byte) int {
	n := 0
	for _, b := range buf {
		if b == '\n' {
			n++
		}
	}
	return n
}

// peekRowBoundary scans buf chunk-by-chunk looking for the row's
// terminator (CR, LF, or CRLF) and, when quoting is enabled, for the
// first quote byte. It never mutates *cols — it is purely a fast
// classifier letting the caller choose between the cheap delimiter-only
// split and the full scalar FSM.
//
// Returns rowLen (byte length excluding terminator), consumed (including
// terminator), quoted (true if a quote byte appears at or before the
// terminator, meaning the caller must fall back to the scalar path), and
// incomplete (true if no terminator was found and atEOF is false, or a
// trailing CR is ambiguous with an as-yet-unread LF — the caller must
// pull more input and retry).
func peekRowBoundary(buf []byte, quotingEnabled bool, quote, delimiter byte, atEOF bool) (rowLen, consumed int, quoted, incomplete bool) {
	offset := 0
	for offset < len(buf) {
		end := offset + simdChunkSize
		var quoteMask, crMask, nlMask uint64
		if end <= len(buf) {
			quoteMask, _, crMask, nlMask = generateMasks(buf[offset:end], quote, delimiter)
		} else {
			quoteMask, _, crMask, nlMask, _ = generateMasksPadded(buf[offset:], quote, delimiter)
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

// splitSimpleRow splits a row known to contain no quote bytes purely on
// the configured delimiter. row must already exclude the terminator.
func splitSimpleRow(row []byte, opts *ParserOptions, cols *[]ColumnOffset) error {
	start := 0
	for i := 0; i < len(row); i++ {
		if row[i] == opts.Delimiter {
			if err := appendColumn(cols, start, i-start, opts, row, 0); err != nil {
				return err
			}
			start = i + 1
		}
	}
	if err := appendColumn(cols, start, len(row)-start, opts, row, 0); err != nil {
		return err
	}
	return nil
}

// tokenizeRowScalar is the reference implementation of the four-state
// quote FSM: FieldStart, Unquoted, Quoted, QuotedClosed.
//
// Any one-byte lookahead the FSM needs (CRLF, doubled quote, an escaped
// byte) that would run past the end of buf is only resolved when atEOF is
// true; otherwise the function returns errIncompleteRow so the caller can
// pull more input and retry from the same logical row.
func tokenizeRowScalar(buf []byte, opts *ParserOptions, cols *[]ColumnOffset, atEOF bool) (RowParseResult, error) {
	const (
		stFieldStart = iota
		stUnquoted
		stQuoted
		stQuotedClosed
	)

	state := stFieldStart
	fieldStart := 0
	quoteOpenPos := -1
	pos := 0

	emit := func(end int) error {
		return appendColumn(cols, fieldStart, end-fieldStart, opts, buf, 0)
	}

	terminate := func(pos int, b byte) (RowParseResult, error, bool) {
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
			NewlineCount:  countLF(buf[:consumed]),
		}, nil, true
	}

	for pos < len(buf) {
		b := buf[pos]

		switch state {
		case stFieldStart:
			switch {
			case opts.EnableQuotedFields && b == opts.Quote:
				state = stQuoted
				quoteOpenPos = pos
				pos++
			case b == opts.Delimiter:
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
			case b == opts.Delimiter:
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
			case opts.HasEscape && b == opts.Escape:
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
			case b == opts.Quote:
				if pos+1 >= len(buf) {
					if !atEOF {
						return RowParseResult{}, errIncompleteRow
					}
					state = stQuotedClosed
					pos++
				} else if buf[pos+1] == opts.Quote {
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
					return RowParseResult{}, &ParseError{
						Column: quoteOpenPos + 1,
						Sample: truncateSample(buf[quoteOpenPos:min(quoteOpenPos+sampleLimit, len(buf))]),
						Err:    ErrNewlineInQuotes,
					}
				}
				pos++
			default:
				pos++
			}

		case stQuotedClosed:
			switch {
			case b == opts.Delimiter:
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

	// End of buffer without a row terminator.
	if !atEOF {
		return RowParseResult{}, errIncompleteRow
	}
	if state == stQuoted {
		return RowParseResult{}, &ParseError{
			Column: quoteOpenPos + 1,
			Sample: truncateSample(buf[quoteOpenPos:]),
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
		NewlineCount:  countLF(buf),
	}, nil
}
