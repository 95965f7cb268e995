package tabdsv

import "io"

// writerFlushThreshold bounds how large Writer's output buffer is allowed
// to grow before a field write triggers an implicit Flush: before growing
// the buffer beyond the pool capacity, the encoded bytes are flushed to
// the sink.
const writerFlushThreshold = 64 * 1024

// Writer serializes field sequences to a destination as RFC-4180-style
// DSV, applying the configured quoting policy, quote escaping, and
// injection protection on every field.
//
// A Writer is not safe for concurrent use: its buffer, column counter, and
// cumulative output-size counter are mutated on every call.
type Writer struct {
	opts WriterOptions
	w    io.Writer

	buf     *[]byte // output accumulation buffer, rented from bufferPool
	scratch *[]byte // numeric/temporal formatting scratch, rented from bufferPool

	firstField   bool
	columnCount  int
	recordNumber int
	totalWritten int64 // bytes already handed to w.Write, excluding buf's unflushed tail

	err error
}

// NewWriter returns a Writer with RFC-4180-conformant defaults writing to w.
func NewWriter(w io.Writer) *Writer {
	wr, err := NewWriterWithOptions(w, DefaultWriterOptions())
	if err != nil {
		// DefaultWriterOptions always validates; a failure here would be a
		// bug in this package, not a caller error.
		panic(err)
	}
	return wr
}

// NewWriterWithOptions validates opts and returns a Writer bound to w.
func NewWriterWithOptions(w io.Writer, opts WriterOptions) (*Writer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Writer{
		opts:       opts,
		w:          w,
		buf:        getBuffer(),
		scratch:    getBuffer(),
		firstField: true,
	}, nil
}

// Error reports the first error encountered by a previous WriteField,
// WriteRow, EndRow, or Flush call; once set, a Writer refuses further work.
func (w *Writer) Error() error { return w.err }

// WriteField writes one field value, applying quote-need analysis,
// injection protection, and quote-doubling. It accepts strings, []byte,
// the recognized numeric/bool/time.Time kinds, or a Formattable; anything
// else is stringified via fmt.Sprint.
func (w *Writer) WriteField(value interface{}) error {
	if w.err != nil {
		return w.err
	}
	s, err := FormatValue(w.scratch, value, w.opts.NullValue, w.opts.Culture)
	if err != nil {
		w.err = err
		return err
	}
	return w.writeFieldBytes([]byte(s))
}

// writeFieldBytes implements the five WriteField steps against an
// already-formatted field: column-count enforcement, delimiter prefix,
// max-field-size enforcement, injection protection, then quoting.
func (w *Writer) writeFieldBytes(field []byte) error {
	// 1. Increment column counter; enforce max_column_count.
	w.columnCount++
	if w.opts.HasMaxColumnCount && w.columnCount > w.opts.MaxColumnCount {
		w.err = &WriterError{Record: w.recordNumber + 1, Column: w.columnCount, Err: ErrTooManyColsWritten}
		return w.err
	}

	// 2. If not the first field in the row, append delimiter.
	if !w.firstField {
		if err := w.appendByte(w.opts.Delimiter); err != nil {
			return err
		}
	}
	w.firstField = false

	if w.opts.HasMaxFieldSize && len(field) > w.opts.MaxFieldSize {
		w.err = &WriterError{Record: w.recordNumber + 1, Column: w.columnCount, Sample: truncateSample(field), Err: ErrFieldSizeExceeded}
		return w.err
	}

	// 4. Injection protection, applied ahead of the quote-need computation
	// since EscapeWithQuote/EscapeWithTab bypass normal quoting entirely.
	out, direct, ierr := applyInjectionProtection(field, w.opts.InjectionProtection, w.opts.Quote, w.opts.AdditionalDangerous)
	if ierr != nil {
		w.err = &WriterError{Record: w.recordNumber + 1, Column: w.columnCount, Sample: truncateSample(field), Err: ierr}
		return w.err
	}
	if direct {
		return w.appendBytes(out)
	}

	// 3 & 5. Quote-need analysis, then write (possibly) quoted.
	needsQuote, quoteCount := w.quoteNeed(out)
	return w.writeMaybeQuoted(out, needsQuote, quoteCount)
}

// quoteNeed computes, in one pass, whether a field must be quoted under
// the configured QuoteStyle and how many quote characters it contains.
func (w *Writer) quoteNeed(field []byte) (needsQuote bool, quoteCount int) {
	switch w.opts.QuoteStyle {
	case QuoteNever:
		return false, 0
	case QuoteAlways:
		for _, b := range field {
			if b == w.opts.Quote {
				quoteCount++
			}
		}
		return true, quoteCount
	default: // QuoteWhenNeeded
		for _, b := range field {
			switch b {
			case w.opts.Quote:
				quoteCount++
				needsQuote = true
			case w.opts.Delimiter, '\r', '\n':
				needsQuote = true
			}
		}
		return needsQuote, quoteCount
	}
}

// writeMaybeQuoted writes field verbatim if needsQuote is false, otherwise
// wraps it in Quote bytes, doubling every embedded Quote. When quoteCount
// is zero the doubling pass degenerates to a plain copy of the body.
func (w *Writer) writeMaybeQuoted(field []byte, needsQuote bool, quoteCount int) error {
	if !needsQuote {
		return w.appendBytes(field)
	}
	if err := w.appendByte(w.opts.Quote); err != nil {
		return err
	}
	if quoteCount == 0 {
		if err := w.appendBytes(field); err != nil {
			return err
		}
	} else {
		start := 0
		for i, b := range field {
			if b == w.opts.Quote {
				if err := w.appendBytes(field[start : i+1]); err != nil {
					return err
				}
				if err := w.appendByte(w.opts.Quote); err != nil {
					return err
				}
				start = i + 1
			}
		}
		if start < len(field) {
			if err := w.appendBytes(field[start:]); err != nil {
				return err
			}
		}
	}
	return w.appendByte(w.opts.Quote)
}

// EndRow appends the configured newline sequence and resets the
// first-field and column counters for the next row.
func (w *Writer) EndRow() error {
	if w.err != nil {
		return w.err
	}
	if err := w.appendBytes(w.opts.Newline); err != nil {
		return err
	}
	w.firstField = true
	w.columnCount = 0
	w.recordNumber++
	return nil
}

// WriteRow writes each value as a field, in order, then ends the row.
func (w *Writer) WriteRow(values ...interface{}) error {
	for _, v := range values {
		if err := w.WriteField(v); err != nil {
			return err
		}
	}
	return w.EndRow()
}

// WriteStrings writes record as a row of string fields and ends the row,
// mirroring encoding/csv's Write([]string) for callers that already hold
// string records.
func (w *Writer) WriteStrings(record []string) error {
	for _, f := range record {
		if err := w.WriteField(f); err != nil {
			return err
		}
	}
	return w.EndRow()
}

// WriteAllStrings writes every record via WriteStrings, then flushes.
func (w *Writer) WriteAllStrings(records [][]string) error {
	for _, r := range records {
		if err := w.WriteStrings(r); err != nil {
			return err
		}
	}
	return w.Flush()
}

// appendByte appends a single byte to the output buffer.
func (w *Writer) appendByte(b byte) error {
	return w.appendBytes([]byte{b})
}

// appendBytes appends b to the output buffer, enforcing max_output_size
// and flushing first if the buffer has grown past writerFlushThreshold.
func (w *Writer) appendBytes(b []byte) error {
	if w.opts.HasMaxOutputSize {
		projected := w.totalWritten + int64(len(*w.buf)) + int64(len(b))
		if projected > w.opts.MaxOutputSize {
			w.err = &WriterError{Record: w.recordNumber + 1, Column: w.columnCount, Err: ErrOutputSizeExceeded}
			return w.err
		}
	}
	if len(*w.buf)+len(b) > writerFlushThreshold {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	*w.buf = append(*w.buf, b...)
	return nil
}

// Flush writes any buffered data to the underlying io.Writer. Safe to call
// with an empty buffer.
func (w *Writer) Flush() error {
	if len(*w.buf) == 0 {
		return w.err
	}
	n, werr := w.w.Write(*w.buf)
	w.totalWritten += int64(n)
	*w.buf = (*w.buf)[:0]
	if werr != nil {
		w.err = werr
		return werr
	}
	return w.err
}

// Close flushes any remaining buffered output and releases Writer's
// pooled buffers. It does not close the underlying io.Writer.
func (w *Writer) Close() error {
	err := w.Flush()
	putBuffer(w.buf)
	putBuffer(w.scratch)
	w.buf = nil
	w.scratch = nil
	return err
}
