package tabdsv

import "fmt"

// Alignment declares which side of a fixed-width field is padded, and
// therefore which side trimming removes. It is defined here (rather than
// only in the fixedwidth package) because WriterOptions.QuoteStyle and
// several other enums follow the same small-int pattern and this keeps the
// policy enums together for documentation purposes; the fixedwidth package
// defines its own separate Alignment type and never imports this one (see
// fixedwidth/options.go).
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// QuoteStyle controls when Writer wraps a field in quotes.
type QuoteStyle int

const (
	// QuoteWhenNeeded quotes a field only if it contains the delimiter,
	// the quote character, or a CR/LF.
	QuoteWhenNeeded QuoteStyle = iota
	// QuoteAlways always wraps every field in quotes.
	QuoteAlways
	// QuoteNever never quotes; the caller is responsible for producing
	// safe output.
	QuoteNever
)

// InjectionProtection selects the transform applied to fields whose
// leading character would be interpreted as a formula by common
// spreadsheet applications.
type InjectionProtection int

const (
	InjectionNone InjectionProtection = iota
	InjectionEscapeWithQuote
	InjectionEscapeWithTab
	InjectionSanitize
	InjectionReject
)

// ParserOptions is the immutable configuration shared by the DSV tokenizer
// and streaming reader. Construct with DefaultParserOptions and mutate the
// returned value before calling Validate; once validated, treat it as
// read-only (Reader validates it on its first Read).
type ParserOptions struct {
	Delimiter              byte
	Quote                  byte
	Escape                 byte
	HasEscape              bool
	Comment                byte
	HasComment             bool
	MaxColumns             int
	MaxRows                int
	MaxFieldLength         int
	HasMaxFieldLength      bool
	AllowNewlinesInQuotes  bool
	EnableQuotedFields     bool
	TrimUnquotedFields     bool
	UseSIMD                bool
	TrackSourceLines       bool
	SkipRows               int
	SkipEmptyLines         bool
}

// DefaultParserOptions returns the RFC-4180 default configuration: comma
// delimiter, double-quote, quoting enabled, no comment or escape
// character, generous row/column ceilings, SIMD advertised when available.
func DefaultParserOptions() ParserOptions {
	return ParserOptions{
		Delimiter:          ',',
		Quote:              '"',
		MaxColumns:         4096,
		MaxRows:            1 << 30,
		EnableQuotedFields: true,
		UseSIMD:            simdAvailable,
		TrackSourceLines:   true,
	}
}

// Validate rejects invalid configuration before any byte is read. It is
// the single authority for option sanity; Reader calls it before reading
// any input, and the tokenizer assumes an already-validated ParserOptions
// and performs no further checks.
func (o ParserOptions) Validate() error {
	if !isASCII(o.Delimiter) {
		return &OptionsError{Field: "Delimiter", Message: "must be ASCII (0-127)"}
	}
	if !isASCII(o.Quote) {
		return &OptionsError{Field: "Quote", Message: "must be ASCII (0-127)"}
	}
	if o.HasEscape && !isASCII(o.Escape) {
		return &OptionsError{Field: "Escape", Message: "must be ASCII (0-127)"}
	}
	if o.HasComment && !isASCII(o.Comment) {
		return &OptionsError{Field: "Comment", Message: "must be ASCII (0-127)"}
	}
	if o.Delimiter == o.Quote {
		return &OptionsError{Field: "Quote", Message: "must differ from Delimiter"}
	}
	if o.HasComment && o.Delimiter == o.Comment {
		return &OptionsError{Field: "Comment", Message: "must differ from Delimiter"}
	}
	if o.HasEscape && o.Delimiter == o.Escape {
		return &OptionsError{Field: "Escape", Message: "must differ from Delimiter"}
	}
	if o.HasComment && o.Quote == o.Comment {
		return &OptionsError{Field: "Comment", Message: "must differ from Quote"}
	}
	if o.HasEscape && o.Quote == o.Escape {
		return &OptionsError{Field: "Escape", Message: "must differ from Quote"}
	}
	if o.HasEscape && o.HasComment && o.Comment == o.Escape {
		return &OptionsError{Field: "Escape", Message: "must differ from Comment"}
	}
	if o.MaxColumns <= 0 {
		return &OptionsError{Field: "MaxColumns", Message: "must be positive"}
	}
	if o.MaxRows <= 0 {
		return &OptionsError{Field: "MaxRows", Message: "must be positive"}
	}
	if o.HasMaxFieldLength && o.MaxFieldLength <= 0 {
		return &OptionsError{Field: "MaxFieldLength", Message: "must be positive when set"}
	}
	if o.AllowNewlinesInQuotes && !o.EnableQuotedFields {
		return &OptionsError{Field: "AllowNewlinesInQuotes", Message: "requires EnableQuotedFields"}
	}
	return nil
}

// WriterOptions is the immutable configuration for Writer.
type WriterOptions struct {
	Delimiter           byte
	Quote               byte
	Newline             []byte
	QuoteStyle          QuoteStyle
	NullValue           string
	InjectionProtection InjectionProtection
	AdditionalDangerous map[byte]struct{}
	MaxOutputSize       int64
	HasMaxOutputSize    bool
	MaxFieldSize        int
	HasMaxFieldSize     bool
	MaxColumnCount      int
	HasMaxColumnCount   bool

	// Culture is an opaque locale handle used only to pick the decimal
	// separator FormatValue substitutes into an otherwise-'.'-formatted
	// float/decimal string. Empty means the invariant ('.') separator.
	// Recognized values are BCP-47-ish language tags such as "de",
	// "de-DE", "fr".
	Culture string
}

// DefaultWriterOptions returns RFC-4180-conformant defaults: comma
// delimiter, double-quote, LF newline, quote-when-needed.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{
		Delimiter:  ',',
		Quote:      '"',
		Newline:    []byte{'\n'},
		QuoteStyle: QuoteWhenNeeded,
	}
}

// Validate rejects invalid writer configuration before any byte is
// written.
func (o WriterOptions) Validate() error {
	if !isASCII(o.Delimiter) {
		return &OptionsError{Field: "Delimiter", Message: "must be ASCII (0-127)"}
	}
	if !isASCII(o.Quote) {
		return &OptionsError{Field: "Quote", Message: "must be ASCII (0-127)"}
	}
	if o.Delimiter == o.Quote {
		return &OptionsError{Field: "Quote", Message: "must differ from Delimiter"}
	}
	if len(o.Newline) == 0 {
		return &OptionsError{Field: "Newline", Message: "must not be empty"}
	}
	for _, b := range o.Newline {
		if b != '\r' && b != '\n' {
			return &OptionsError{Field: "Newline", Message: "must contain only CR and LF"}
		}
	}
	if o.HasMaxOutputSize && o.MaxOutputSize <= 0 {
		return &OptionsError{Field: "MaxOutputSize", Message: "must be positive when set"}
	}
	if o.HasMaxFieldSize && o.MaxFieldSize <= 0 {
		return &OptionsError{Field: "MaxFieldSize", Message: "must be positive when set"}
	}
	if o.HasMaxColumnCount && o.MaxColumnCount <= 0 {
		return &OptionsError{Field: "MaxColumnCount", Message: "must be positive when set"}
	}
	return nil
}

func isASCII(b byte) bool {
	return b <= 127
}

// OptionsError reports an invalid option configuration caught by Validate.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("tabdsv: invalid option %s: %s", e.Field, e.Message)
}
