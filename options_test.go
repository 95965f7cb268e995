package tabdsv

import "testing"

func TestDefaultParserOptionsValid(t *testing.T) {
	if err := DefaultParserOptions().Validate(); err != nil {
		t.Fatalf("default parser options should validate: %v", err)
	}
}

func TestDefaultWriterOptionsValid(t *testing.T) {
	if err := DefaultWriterOptions().Validate(); err != nil {
		t.Fatalf("default writer options should validate: %v", err)
	}
}

func TestParserOptionsValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		mod  func(o *ParserOptions)
	}{
		{"delimiter non-ASCII", func(o *ParserOptions) { o.Delimiter = 0xFF }},
		{"quote non-ASCII", func(o *ParserOptions) { o.Quote = 0xFF }},
		{"comment non-ASCII", func(o *ParserOptions) { o.HasComment = true; o.Comment = 0xFF }},
		{"delimiter equals quote", func(o *ParserOptions) { o.Quote = o.Delimiter }},
		{"comment equals delimiter", func(o *ParserOptions) { o.HasComment = true; o.Comment = o.Delimiter }},
		{"escape equals delimiter", func(o *ParserOptions) { o.HasEscape = true; o.Escape = o.Delimiter }},
		{"comment equals quote", func(o *ParserOptions) { o.HasComment = true; o.Comment = o.Quote }},
		{"escape equals quote", func(o *ParserOptions) { o.HasEscape = true; o.Escape = o.Quote }},
		{"comment equals escape", func(o *ParserOptions) {
			o.HasEscape = true
			o.Escape = '#'
			o.HasComment = true
			o.Comment = '#'
		}},
		{"newlines in quotes without quoted fields", func(o *ParserOptions) {
			o.EnableQuotedFields = false
			o.AllowNewlinesInQuotes = true
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultParserOptions()
			tt.mod(&o)
			if err := o.Validate(); err == nil {
				t.Fatalf("expected validation error, got nil")
			}
		})
	}
}

func TestWriterOptionsValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		mod  func(o *WriterOptions)
	}{
		{"delimiter non-ASCII", func(o *WriterOptions) { o.Delimiter = 0xFF }},
		{"quote non-ASCII", func(o *WriterOptions) { o.Quote = 0xFF }},
		{"delimiter equals quote", func(o *WriterOptions) { o.Quote = o.Delimiter }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultWriterOptions()
			tt.mod(&o)
			if err := o.Validate(); err == nil {
				t.Fatalf("expected validation error, got nil")
			}
		})
	}
}

func TestOptionsErrorMessage(t *testing.T) {
	err := &OptionsError{Field: "Delimiter", Message: "must be ASCII (0-127)"}
	want := "tabdsv: invalid option Delimiter: must be ASCII (0-127)"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
