package fixedwidth

import "fmt"

// Alignment declares which side of a fixed-width field is padded, and
// therefore which side Split trims. fixedwidth keeps its own copy rather
// than importing tabdsv.Alignment — see the package doc comment.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// FieldSpec is the caller-supplied (start, length, pad, alignment) tuple
// field extraction is a pure function of. HasPad/HasAlignment false means
// "use the ParserOptions default".
type FieldSpec struct {
	Start        int
	Length       int
	Pad          byte
	HasPad       bool
	Alignment    Alignment
	HasAlignment bool
}

// ParserOptions is the immutable configuration for the fixed-width
// splitter and streaming Reader.
type ParserOptions struct {
	// RecordLength, when HasRecordLength is true, makes every record
	// exactly this many bytes with no line terminator (fixed-length
	// framing). When false, records are line-delimited (CR, LF, or
	// CRLF).
	RecordLength    int
	HasRecordLength bool

	DefaultPad       byte
	DefaultAlignment Alignment

	SkipRows       int
	SkipEmptyLines bool

	MaxRows          int
	TrackSourceLines bool
}

// DefaultParserOptions returns line-delimited framing with a space pad and
// no default trimming (AlignNone — the caller must opt a field into
// trimming via its FieldSpec, unlike dolthub/dolt's implicit always-trim
// behavior).
func DefaultParserOptions() ParserOptions {
	return ParserOptions{
		DefaultPad:       ' ',
		DefaultAlignment: AlignNone,
		MaxRows:          1 << 30,
		TrackSourceLines: true,
	}
}

// Validate rejects invalid configuration before any byte is read, the
// single authority for fixedwidth options (mirrors tabdsv.ParserOptions.Validate).
func (o ParserOptions) Validate() error {
	if o.HasRecordLength && o.RecordLength <= 0 {
		return &OptionsError{Field: "RecordLength", Message: "must be positive when set"}
	}
	if o.MaxRows <= 0 {
		return &OptionsError{Field: "MaxRows", Message: "must be positive"}
	}
	if o.SkipRows < 0 {
		return &OptionsError{Field: "SkipRows", Message: "must not be negative"}
	}
	return nil
}

// OptionsError reports an invalid option configuration caught by Validate.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("fixedwidth: invalid option %s: %s", e.Field, e.Message)
}

// resolve fills in Pad/Alignment from opts wherever the FieldSpec didn't
// set them explicitly.
func (spec FieldSpec) resolve(opts ParserOptions) (pad byte, alignment Alignment) {
	pad = opts.DefaultPad
	if spec.HasPad {
		pad = spec.Pad
	}
	alignment = opts.DefaultAlignment
	if spec.HasAlignment {
		alignment = spec.Alignment
	}
	return pad, alignment
}
