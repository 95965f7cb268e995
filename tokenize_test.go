package tabdsv

import (
	"errors"
	"testing"
)

func tokenizeAll(t *testing.T, input string, opts ParserOptions) ([][]string, error) {
	t.Helper()
	var rows [][]string
	var cols []ColumnOffset
	buf := []byte(input)
	pos := 0
	for pos < len(buf) {
		res, err := tokenizeRow(buf[pos:], &opts, &cols, true)
		if err != nil {
			return rows, err
		}
		if !res.IsComment {
			row := make([]string, len(cols))
			for i, c := range cols {
				row[i] = string(Unquote(buf[pos+c.Start:pos+c.Start+c.Length], opts.Quote))
			}
			rows = append(rows, row)
		}
		pos += res.BytesConsumed
	}
	return rows, nil
}

func TestTokenizeRowScalarBasic(t *testing.T) {
	opts := DefaultParserOptions()
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{"simple", "a,b,c\n1,2,3\n", [][]string{{"a", "b", "c"}, {"1", "2", "3"}}},
		{"quoted with comma", `"a","b,c","d"` + "\n", [][]string{{"a", "b,c", "d"}}},
		{"doubled quotes", `"he said ""hi"""` + "\n", [][]string{{`he said "hi"`}}},
		{"no trailing newline", "a,b,c", [][]string{{"a", "b", "c"}}},
		{"crlf", "a,b\r\nc,d\r\n", [][]string{{"a", "b"}, {"c", "d"}}},
		{"bare cr", "a,b\rc,d\r", [][]string{{"a", "b"}, {"c", "d"}}},
		{"empty field", "a,,c\n", [][]string{{"a", "", "c"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tokenizeAll(t, tt.input, opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if len(got[i]) != len(tt.want[i]) {
					t.Fatalf("row %d: got %v, want %v", i, got[i], tt.want[i])
				}
				for j := range got[i] {
					if got[i][j] != tt.want[i][j] {
						t.Fatalf("row %d field %d: got %q, want %q", i, j, got[i][j], tt.want[i][j])
					}
				}
			}
		})
	}
}

func TestTokenizeRowScalarUnterminatedQuote(t *testing.T) {
	opts := DefaultParserOptions()
	_, err := tokenizeAll(t, `"unterminated`, opts)
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Err != ErrUnterminatedQuote {
		t.Fatalf("expected ErrUnterminatedQuote, got %v", err)
	}
}

func TestTokenizeRowScalarNewlineInQuotedFieldRejectedByDefault(t *testing.T) {
	opts := DefaultParserOptions()
	_, err := tokenizeAll(t, "\"a\nb\"\n", opts)
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Err != ErrNewlineInQuotes {
		t.Fatalf("expected ErrNewlineInQuotes, got %v", err)
	}
}

func TestTokenizeRowScalarNewlineInQuotedFieldAllowed(t *testing.T) {
	opts := DefaultParserOptions()
	opts.AllowNewlinesInQuotes = true
	got, err := tokenizeAll(t, "\"a\nb\",c\n", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0][0] != "a\nb" || got[0][1] != "c" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestTokenizeRowCommentLines(t *testing.T) {
	opts := DefaultParserOptions()
	opts.HasComment = true
	opts.Comment = '#'
	got, err := tokenizeAll(t, "# a comment\na,b\n# another\nc,d\n", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0][0] != "a" || got[1][0] != "c" {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestTokenizeRowEscapeDisablesSIMDPath(t *testing.T) {
	opts := DefaultParserOptions()
	opts.HasEscape = true
	opts.Escape = '\\'
	got, err := tokenizeAll(t, `"a\"b",c`+"\n", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || len(got[0]) != 2 {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestTokenizeRowMaxColumnsExceeded(t *testing.T) {
	opts := DefaultParserOptions()
	opts.MaxColumns = 2
	_, err := tokenizeAll(t, "a,b,c\n", opts)
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Err != ErrTooManyColumns {
		t.Fatalf("expected ErrTooManyColumns, got %v", err)
	}
}

func TestPeekRowBoundaryIncompleteWithoutEOF(t *testing.T) {
	_, _, _, incomplete := peekRowBoundary([]byte("a,b,c"), true, '"', ',', false)
	if !incomplete {
		t.Fatalf("expected incomplete=true when no terminator and atEOF=false")
	}
}

func TestConsumeCommentLine(t *testing.T) {
	consumed, nl, complete := consumeCommentLine([]byte("# hi\nrest"), true)
	if !complete || consumed != 5 || nl != 1 {
		t.Fatalf("got consumed=%d nl=%d complete=%v", consumed, nl, complete)
	}
}
