package tabdsv

import (
	"bytes"
	"testing"
)

func TestWriterWriteRowBasic(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteRow("a", "b", "c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush error: %v", err)
	}
	if got, want := buf.String(), "a,b,c\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterQuotesWhenNeeded(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteRow("a,b", `c"d`, "plain"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Flush()
	want := `"a,b","c""d",plain` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterQuoteStyleAlways(t *testing.T) {
	opts := DefaultWriterOptions()
	opts.QuoteStyle = QuoteAlways
	var buf bytes.Buffer
	w, err := NewWriterWithOptions(&buf, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.WriteRow("a", "b")
	w.Flush()
	if got, want := buf.String(), `"a","b"`+"\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterQuoteStyleNever(t *testing.T) {
	opts := DefaultWriterOptions()
	opts.QuoteStyle = QuoteNever
	var buf bytes.Buffer
	w, _ := NewWriterWithOptions(&buf, opts)
	w.WriteRow("a,b", "c")
	w.Flush()
	if got, want := buf.String(), "a,b,c\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterFormatsValueKinds(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteRow(42, int64(7), true, false, 3.5, nil)
	w.Flush()
	want := "42,7,True,False,3.5,\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterCultureDecimalSeparator(t *testing.T) {
	opts := DefaultWriterOptions()
	opts.Culture = "de"
	var buf bytes.Buffer
	w, _ := NewWriterWithOptions(&buf, opts)
	w.WriteRow(3.5)
	w.Flush()
	if got, want := buf.String(), "\"3,5\"\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterMaxColumnCountExceeded(t *testing.T) {
	opts := DefaultWriterOptions()
	opts.HasMaxColumnCount = true
	opts.MaxColumnCount = 1
	var buf bytes.Buffer
	w, _ := NewWriterWithOptions(&buf, opts)
	err := w.WriteRow("a", "b")
	if err == nil {
		t.Fatalf("expected ErrTooManyColsWritten")
	}
	if w.Error() == nil {
		t.Fatalf("expected sticky Error() once a write fails")
	}
}

func TestWriterMaxFieldSizeExceeded(t *testing.T) {
	opts := DefaultWriterOptions()
	opts.HasMaxFieldSize = true
	opts.MaxFieldSize = 2
	var buf bytes.Buffer
	w, _ := NewWriterWithOptions(&buf, opts)
	if err := w.WriteField("abc"); err == nil {
		t.Fatalf("expected ErrFieldSizeExceeded")
	}
}

func TestWriterInjectionSanitizeStripsLeadingDangerousBytes(t *testing.T) {
	opts := DefaultWriterOptions()
	opts.InjectionProtection = InjectionSanitize
	var buf bytes.Buffer
	w, _ := NewWriterWithOptions(&buf, opts)
	w.WriteRow("=cmd")
	w.Flush()
	if got, want := buf.String(), "cmd\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterInjectionEscapeWithQuote(t *testing.T) {
	opts := DefaultWriterOptions()
	opts.InjectionProtection = InjectionEscapeWithQuote
	var buf bytes.Buffer
	w, _ := NewWriterWithOptions(&buf, opts)
	w.WriteRow("=cmd")
	w.Flush()
	if got, want := buf.String(), "\"'=cmd\"\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriterInjectionReject(t *testing.T) {
	opts := DefaultWriterOptions()
	opts.InjectionProtection = InjectionReject
	var buf bytes.Buffer
	w, _ := NewWriterWithOptions(&buf, opts)
	if err := w.WriteRow("=cmd"); err == nil {
		t.Fatalf("expected ErrInjectionDetected")
	}
}

func TestWriterInjectionAllowsSafeNegativeNumbers(t *testing.T) {
	opts := DefaultWriterOptions()
	opts.InjectionProtection = InjectionSanitize
	var buf bytes.Buffer
	w, _ := NewWriterWithOptions(&buf, opts)
	w.WriteRow("-5", "+1.50")
	w.Flush()
	if got, want := buf.String(), "-5,+1.50\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteAllStrings(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	records := [][]string{{"a", "b"}, {"c", "d"}}
	if err := w.WriteAllStrings(records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := buf.String(), "a,b\nc,d\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
