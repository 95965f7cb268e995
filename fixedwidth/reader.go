package fixedwidth

import (
	"bufio"
	"io"
)

// RecordView is a read-only slice of the underlying buffer representing
// one fixed-width record, mirroring tabdsv.RowView's shape for the
// positional format.
type RecordView struct {
	Buf              []byte
	RecordNumber     int
	SourceLineNumber int
}

// Field extracts the named field from the record, resolving its pad/
// alignment against opts wherever the FieldSpec left them unset.
func (v RecordView) Field(spec FieldSpec, opts ParserOptions) ([]byte, error) {
	return Field(v.Buf, spec, opts)
}

// Reader frames successive fixed-width records out of an io.Reader, in
// either line-delimited or fixed-byte-length mode, grounded on
// dolthub/dolt's FWTReader.ReadRow line-reading loop generalized to both
// modes and to the explicit pad/alignment tuple.
type Reader struct {
	opts ParserOptions
	br   *bufio.Reader

	recordNumber int
	lineNumber   int
	inputOffset  int64
	started      bool
	done         bool
}

// NewReader validates opts and returns a Reader framing records out of r.
func NewReader(r io.Reader, opts ParserOptions) (*Reader, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Reader{
		opts:       opts,
		br:         bufio.NewReaderSize(r, 64*1024),
		lineNumber: 1,
	}, nil
}

// InputOffset reports how many bytes of input Reader has consumed so far.
func (r *Reader) InputOffset() int64 { return r.inputOffset }

func (r *Reader) stripBOM() error {
	peek, _ := r.br.Peek(3)
	if len(peek) >= 3 && peek[0] == 0xEF && peek[1] == 0xBB && peek[2] == 0xBF {
		if _, err := r.br.Discard(3); err != nil {
			return err
		}
		r.inputOffset += 3
	}
	return nil
}

func (r *Reader) runSkipRows() error {
	for i := 0; i < r.opts.SkipRows; i++ {
		if _, err := r.Read(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
	return nil
}

// Read returns the next record, or io.EOF once the input is exhausted.
func (r *Reader) Read() (RecordView, error) {
	if !r.started {
		r.started = true
		if err := r.stripBOM(); err != nil {
			return RecordView{}, err
		}
		if err := r.runSkipRows(); err != nil {
			return RecordView{}, err
		}
	}
	if r.done {
		return RecordView{}, io.EOF
	}

	for {
		var buf []byte
		var err error
		if r.opts.HasRecordLength {
			buf, err = r.readFixedLength()
		} else {
			buf, err = r.readLine()
		}
		if err != nil {
			return RecordView{}, err
		}
		if buf == nil {
			r.done = true
			return RecordView{}, io.EOF
		}

		startLine := r.lineNumber
		if !r.opts.HasRecordLength {
			r.lineNumber++
		}

		if len(buf) == 0 && r.opts.SkipEmptyLines {
			continue
		}

		r.recordNumber++
		if r.recordNumber > r.opts.MaxRows {
			return RecordView{}, &RecordError{Record: r.recordNumber, Line: startLine, Err: ErrTooManyRows}
		}

		return RecordView{Buf: buf, RecordNumber: r.recordNumber, SourceLineNumber: startLine}, nil
	}
}

// readFixedLength reads exactly opts.RecordLength bytes. A short final
// read (0 < n < RecordLength) is fatal: a trailing partial record is not
// silently truncated or padded.
func (r *Reader) readFixedLength() ([]byte, error) {
	buf := make([]byte, r.opts.RecordLength)
	n, err := io.ReadFull(r.br, buf)
	r.inputOffset += int64(n)
	switch err {
	case nil:
		return buf, nil
	case io.EOF:
		return nil, nil
	case io.ErrUnexpectedEOF:
		return nil, &RecordError{Record: r.recordNumber + 1, Line: r.lineNumber, Sample: truncateSample(buf[:n]), Err: ErrInvalidRecordLength}
	default:
		return nil, err
	}
}

// readLine reads everything up to the next CR, LF, or CRLF, excluding the
// terminator itself.
func (r *Reader) readLine() ([]byte, error) {
	line := []byte{}
	for {
		b, err := r.br.ReadByte()
		if err != nil {
			if err == io.EOF {
				if len(line) == 0 {
					return nil, nil
				}
				return line, nil
			}
			return nil, err
		}
		r.inputOffset++
		if b == '\n' {
			return line, nil
		}
		if b == '\r' {
			if next, perr := r.br.Peek(1); perr == nil && len(next) == 1 && next[0] == '\n' {
				_, _ = r.br.Discard(1)
				r.inputOffset++
			}
			return line, nil
		}
		line = append(line, b)
	}
}
