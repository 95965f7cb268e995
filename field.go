package tabdsv

// ColumnOffset is a (start, length) pair into the buffer a row was parsed
// from. Fields are returned verbatim, including surrounding quotes and any
// doubled-quote sequences — Unquote performs the separate unescaping pass.
type ColumnOffset struct {
	Start  int
	Length int
}

// RowView is a read-only slice of the underlying buffer representing one
// logical record. It borrows the parser's input buffer and must not
// outlive it.
type RowView struct {
	Buf              []byte
	Columns          []ColumnOffset
	RecordNumber     int
	SourceLineNumber int
}

// ColumnCount returns the number of fields in the row.
func (r RowView) ColumnCount() int { return len(r.Columns) }

// Field returns the raw (still-quoted) bytes of column i.
func (r RowView) Field(i int) []byte {
	c := r.Columns[i]
	return r.Buf[c.Start : c.Start+c.Length]
}

// FieldString is a convenience wrapper around Field + Unquote.
func (r RowView) FieldString(i int) string {
	return string(Unquote(r.Field(i), '"'))
}

// Unquote returns the inner slice of a quoted field (stripping the
// surrounding quote bytes) and collapses doubled quotes, in a single
// pass, only if the field is actually quoted — i.e. both its first and
// last byte equal quote and it is at least two bytes long. Unquoting an
// already-unquoted field is a no-op, so Unquote(Unquote(f)) == Unquote(f)
// holds unless the unquoted content itself begins and ends with quote:
// `"""a"""` unquotes to `"a"`, which a second call unquotes to `a`.
func Unquote(field []byte, quote byte) []byte {
	if len(field) < 2 || field[0] != quote || field[len(field)-1] != quote {
		return field
	}
	inner := field[1 : len(field)-1]
	if !containsByte(inner, quote) {
		return inner
	}
	out := make([]byte, 0, len(inner))
	for i := 0; i < len(inner); i++ {
		b := inner[i]
		if b == quote && i+1 < len(inner) && inner[i+1] == quote {
			out = append(out, quote)
			i++
			continue
		}
		out = append(out, b)
	}
	return out
}

func containsByte(b []byte, target byte) bool {
	for _, c := range b {
		if c == target {
			return true
		}
	}
	return false
}

// isRawlyQuoted reports whether the raw field slice (as returned by
// tokenizeRow, before Unquote) is itself surrounded by quote bytes — used
// by trimming to decide whether a field is exempt.
func isRawlyQuoted(buf []byte, c ColumnOffset, quote byte) bool {
	if c.Length < 2 {
		return false
	}
	return buf[c.Start] == quote && buf[c.Start+c.Length-1] == quote
}

// trimRowColumns trims ASCII space/tab from the leading/trailing edges of
// every column whose raw slice is not itself quote-delimited, in place.
func trimRowColumns(buf []byte, cols []ColumnOffset, quote byte) {
	for i := range cols {
		c := cols[i]
		if isRawlyQuoted(buf, c, quote) {
			continue
		}
		start, length := c.Start, c.Length
		for length > 0 && isASCIISpaceOrTab(buf[start]) {
			start++
			length--
		}
		for length > 0 && isASCIISpaceOrTab(buf[start+length-1]) {
			length--
		}
		cols[i] = ColumnOffset{Start: start, Length: length}
	}
}

func isASCIISpaceOrTab(b byte) bool { return b == ' ' || b == '\t' }

// appendColumn records one field, enforcing the per-row column-count and
// (optional) per-field length ceilings. lineNum is used only to annotate
// the returned error.
func appendColumn(cols *[]ColumnOffset, start, length int, opts *ParserOptions, buf []byte, lineNum int) error {
	if len(*cols)+1 > opts.MaxColumns {
		return &ParseError{Line: lineNum, Err: ErrTooManyColumns}
	}
	end, err := overflowGuard(start, length)
	if err != nil {
		return &ParseError{Line: lineNum, Column: start + 1, Err: err}
	}
	if opts.HasMaxFieldLength && length > opts.MaxFieldLength {
		sample := truncateSample(buf[start:min(end, len(buf))])
		return &ParseError{Line: lineNum, Column: start + 1, Sample: sample, Err: ErrFieldTooLong}
	}
	*cols = append(*cols, ColumnOffset{Start: start, Length: length})
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// overflowGuard is a defensive check for position arithmetic: buffers are
// bounded by DefaultMaxInputSize (or ReaderOptions.MaxInputSize) well
// under the int range on every supported platform, so this only fires on
// a caller-supplied buffer pathologically close to the machine's int
// limit.
func overflowGuard(pos, delta int) (int, error) {
	next := pos + delta
	if next < pos {
		return 0, ErrPositionOverflow
	}
	return next, nil
}
