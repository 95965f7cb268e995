package tabdsv

import (
	"context"
	"io"
)

// BufferSource is the collaborator contract a streaming Reader pulls raw
// bytes from. Implementations may compact and grow buf themselves; Reader
// only ever appends at the returned offset. Context cancellation must
// abort an in-flight Fill and return ctx.Err().
type BufferSource interface {
	FillBuffer(ctx context.Context, buf []byte) (n int, eof bool, err error)
}

// readerSource adapts an io.Reader to BufferSource, the default collaborator
// used by NewReader.
type readerSource struct {
	r io.Reader
}

func (s *readerSource) FillBuffer(ctx context.Context, buf []byte) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	n, err := s.r.Read(buf)
	if err == io.EOF {
		return n, true, nil
	}
	if err != nil {
		return n, false, err
	}
	return n, false, nil
}

// ReaderOptions bundles a ParserOptions with the I/O-facing knobs that
// belong to a streaming Reader rather than to tokenization itself.
type ReaderOptions struct {
	Parser       ParserOptions
	MaxInputSize int
	InitialBufSz int
}

// DefaultReaderOptions returns RFC-4180 defaults with a 64KiB initial
// buffer and the package's 2GiB default input ceiling.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		Parser:       DefaultParserOptions(),
		MaxInputSize: DefaultMaxInputSize,
		InitialBufSz: 64 * 1024,
	}
}

// Reader tokenizes one logical row at a time out of a growing buffer fed
// by a BufferSource, never materializing the whole input at once. A
// RowView returned by Read borrows Reader's internal buffer and is only
// valid until the next call to Read.
type Reader struct {
	opts   ReaderOptions
	src    BufferSource
	ctx    context.Context
	buf    []byte // unconsumed bytes, buf[cursor:filled] is live data
	cursor int
	filled int
	base   int
	eof    bool

	cols         []ColumnOffset
	recordNumber int
	lineNumber   int
	started      bool
}

// NewReader wraps an io.Reader with the default parser and buffering
// options.
func NewReader(r io.Reader) *Reader {
	return NewReaderWithOptions(&readerSource{r: r}, DefaultReaderOptions())
}

// NewReaderWithOptions builds a Reader against an arbitrary BufferSource,
// useful for tests or non-io.Reader inputs (e.g. a pre-mapped buffer).
func NewReaderWithOptions(src BufferSource, opts ReaderOptions) *Reader {
	if opts.InitialBufSz <= 0 {
		opts.InitialBufSz = 64 * 1024
	}
	return &Reader{
		opts:       opts,
		src:        src,
		ctx:        context.Background(),
		buf:        make([]byte, opts.InitialBufSz),
		lineNumber: 1,
	}
}

// WithContext attaches ctx to subsequent FillBuffer calls, enabling
// cancellation of a blocked read.
func (r *Reader) WithContext(ctx context.Context) *Reader {
	r.ctx = ctx
	return r
}

// live returns the unconsumed slice of the internal buffer.
func (r *Reader) live() []byte { return r.buf[r.cursor:r.filled] }

// compact moves unconsumed bytes to the front of r.buf.
func (r *Reader) compact() {
	if r.cursor == 0 {
		return
	}
	n := copy(r.buf, r.live())
	r.base += r.cursor
	r.cursor = 0
	r.filled = n
}

// grow doubles r.buf's capacity, enforcing MaxInputSize.
func (r *Reader) grow() error {
	newCap := len(r.buf) * 2
	if newCap == 0 {
		newCap = r.opts.InitialBufSz
	}
	if r.opts.MaxInputSize > 0 && newCap > r.opts.MaxInputSize {
		newCap = r.opts.MaxInputSize
	}
	if newCap <= len(r.buf) {
		return ErrInputTooLarge
	}
	next := make([]byte, newCap)
	copy(next, r.buf[:r.filled])
	r.buf = next
	return nil
}

// fill pulls more bytes from src, compacting and growing as needed. It
// returns false once the source is exhausted and no more bytes arrived.
func (r *Reader) fill() (bool, error) {
	if r.eof {
		return false, nil
	}
	r.compact()
	if r.filled == len(r.buf) {
		if err := r.grow(); err != nil {
			return false, err
		}
	}
	n, eof, err := r.src.FillBuffer(r.ctx, r.buf[r.filled:])
	if err != nil {
		return false, err
	}
	r.filled += n
	if eof {
		r.eof = true
	}
	return n > 0, nil
}

// tokenizeOneRow runs tokenizeRow against the live buffer, pulling more
// input and retrying whenever the tokenizer reports it ran out of buffer
// before finding a row boundary (errIncompleteRow never escapes Reader).
func (r *Reader) tokenizeOneRow() (RowParseResult, error) {
	for {
		if len(r.live()) == 0 {
			if r.eof {
				return RowParseResult{}, io.EOF
			}
			if _, err := r.fill(); err != nil {
				return RowParseResult{}, err
			}
			continue
		}
		res, err := tokenizeRow(r.live(), &r.opts.Parser, &r.cols, r.eof)
		if err == errIncompleteRow {
			// Pull more input (or learn the source is exhausted, in which
			// case the next iteration's atEOF=true resolves the ambiguity)
			// and retry from the same logical row.
			if _, ferr := r.fill(); ferr != nil {
				return RowParseResult{}, ferr
			}
			continue
		}
		return res, err
	}
}

func (r *Reader) stripBOM() error {
	for len(r.live()) < 3 && !r.eof {
		if _, err := r.fill(); err != nil {
			return err
		}
	}
	live := r.live()
	if len(live) >= 3 && live[0] == 0xEF && live[1] == 0xBB && live[2] == 0xBF {
		r.cursor += 3
	}
	return nil
}

func (r *Reader) runSkipRows() error {
	for i := 0; i < r.opts.Parser.SkipRows; i++ {
		res, err := r.tokenizeOneRow()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		r.cursor += res.BytesConsumed
		r.lineNumber += res.NewlineCount
	}
	return nil
}

// Read advances to, and returns, the next row. It returns io.EOF when no
// rows remain. The returned RowView is only valid until the next Read
// call: it borrows Reader's buffer, which Read may compact or grow.
func (r *Reader) Read() (RowView, error) {
	if !r.started {
		if err := r.opts.Parser.Validate(); err != nil {
			return RowView{}, err
		}
		r.started = true
		if err := r.stripBOM(); err != nil {
			return RowView{}, err
		}
		if err := r.runSkipRows(); err != nil {
			return RowView{}, err
		}
	}

	for {
		res, err := r.tokenizeOneRow()
		if err == io.EOF {
			return RowView{}, io.EOF
		}
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Record = r.recordNumber + 1
				pe.Line = r.lineNumber
			}
			return RowView{}, err
		}

		rowStart := r.cursor
		startLine := r.lineNumber
		r.cursor += res.BytesConsumed
		r.lineNumber += res.NewlineCount

		if res.IsComment {
			continue
		}
		if r.opts.Parser.SkipEmptyLines && res.ColumnCount == 1 && res.RowLength == 0 {
			continue
		}

		rowBuf := r.buf[rowStart:r.cursor]

		if r.opts.Parser.TrimUnquotedFields {
			trimRowColumns(rowBuf, r.cols, r.opts.Parser.Quote)
		}

		r.recordNumber++
		if r.opts.Parser.MaxRows > 0 && r.recordNumber > r.opts.Parser.MaxRows {
			return RowView{}, &ParseError{Record: r.recordNumber, Line: startLine, Err: ErrTooManyRows}
		}

		cols := make([]ColumnOffset, len(r.cols))
		copy(cols, r.cols)

		view := RowView{
			Buf:              rowBuf,
			Columns:          cols,
			RecordNumber:     r.recordNumber,
			SourceLineNumber: startLine,
		}
		return view, nil
	}
}

// ReadAll consumes the remaining input and returns every row. Unlike
// Read, each returned RowView owns a private copy of its relevant buffer
// slice, so the slice remains valid after Reader is discarded.
func (r *Reader) ReadAll() ([]RowView, error) {
	var out []RowView
	for {
		row, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		buf := make([]byte, len(row.Buf))
		copy(buf, row.Buf)
		row.Buf = buf
		out = append(out, row)
	}
}

// ParseBytesStreaming parses an in-memory buffer in one pass, invoking
// callback once per row with a RowView that is only valid for the
// duration of that call. It never materializes a []RowView, giving the
// binder collaborator a zero-allocation per-row hand-off when the whole
// input already sits in memory (no BufferSource refill is needed). If
// callback returns an error, parsing stops and that error is returned
// unchanged.
func ParseBytesStreaming(data []byte, opts ParserOptions, callback func(RowView) error) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	start := 0
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		start = 3
	}
	buf := data[start:]

	var cols []ColumnOffset
	recordNumber := 0
	lineNumber := 1

	for i := 0; i < opts.SkipRows && len(buf) > 0; i++ {
		res, err := tokenizeRow(buf, &opts, &cols, true)
		if err != nil {
			return err
		}
		buf = buf[res.BytesConsumed:]
		lineNumber += res.NewlineCount
	}

	for len(buf) > 0 {
		res, err := tokenizeRow(buf, &opts, &cols, true)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Record = recordNumber + 1
				pe.Line = lineNumber
			}
			return err
		}
		if res.BytesConsumed == 0 {
			break
		}

		rowBuf := buf[:res.RowLength]
		startLine := lineNumber
		buf = buf[res.BytesConsumed:]
		lineNumber += res.NewlineCount

		if res.IsComment {
			continue
		}
		if opts.SkipEmptyLines && res.ColumnCount == 1 && res.RowLength == 0 {
			continue
		}

		if opts.TrimUnquotedFields {
			trimRowColumns(rowBuf, cols, opts.Quote)
		}

		recordNumber++
		if opts.MaxRows > 0 && recordNumber > opts.MaxRows {
			return &ParseError{Record: recordNumber, Line: startLine, Err: ErrTooManyRows}
		}

		view := RowView{
			Buf:              rowBuf,
			Columns:          cols,
			RecordNumber:     recordNumber,
			SourceLineNumber: startLine,
		}
		if err := callback(view); err != nil {
			return err
		}
	}
	return nil
}

// FieldPos reports the byte offset of field i within the most recently
// returned row's source line, for diagnostic use.
func (r RowView) FieldPos(i int) int {
	return r.Columns[i].Start
}

// InputOffset reports how many bytes of input Reader has consumed so far,
// including the row just returned.
func (r *Reader) InputOffset() int {
	return r.base + r.cursor
}
