// Package binder holds the record-binding/writing collaborator contracts
// kept outside the core: record-to-field binding, the configurable error
// handler, and progress reporting. None of tabdsv's core packages
// (tabdsv, fixedwidth) import this package — the core only ever sees raw
// RowView/RecordView values; binder is where a caller (such as
// cmd/tabdsv) wires those to typed records via an explicit function-
// pointer table owned by the binding layer.
package binder

import (
	"errors"
	"io"

	"github.com/nnnkkk7/tabdsv"
)

// ErrSkip is the sentinel a RecordBinder returns as its error to drop a
// row without invoking the ErrorHandler.
var ErrSkip = errors.New("binder: row skipped")

// RecordBinder converts one RowView into a caller-defined record, or
// returns ErrSkip to drop the row without treating it as a failure.
type RecordBinder func(row tabdsv.RowView) (record interface{}, err error)

// HeaderConsumer consumes the first row of input as a header instead of a
// data record.
type HeaderConsumer func(row tabdsv.RowView) error

// RecordWriter yields the ordered field values for one caller-defined
// record, for use with tabdsv.Writer.WriteRow.
type RecordWriter func(record interface{}) (fields []interface{}, err error)

// ErrorAction is the disposition an ErrorHandler selects for a failed
// record.
type ErrorAction int

const (
	ActionThrow ErrorAction = iota
	ActionSkipRecord
	ActionSkipRow
	ActionWriteNull
)

// ErrorContext carries the coordinates and raw context of a binding
// failure, enough to both log the failure and let the handler decide how
// to proceed.
type ErrorContext struct {
	Record     int
	Line       int
	FieldName  string
	RawValue   string
	TargetType string
	Err        error
}

// ErrorHandler is consulted by the binding layer — never by the core —
// when a RecordBinder fails, and selects how parsing should proceed. The
// record-binding collaborator is the layer at which a configurable error
// handler belongs, not the tokenizer.
type ErrorHandler func(ctx ErrorContext) ErrorAction

// ProgressReporter is invoked every progressIntervalRows rows processed.
type ProgressReporter func(rowsProcessed int, bytesProcessed, totalBytes int64)

// BindAll drives rows (typically (*tabdsv.Reader).Read) to completion,
// binding each RowView via bind, consulting handler on a binding failure,
// and calling report every progressIntervalRows rows. It is the one place
// in this module that wires RecordBinder/ErrorHandler/ProgressReporter
// together end-to-end; the core reader never sees any of these types.
func BindAll(rows func() (tabdsv.RowView, error), bind RecordBinder, handler ErrorHandler, report ProgressReporter, progressIntervalRows int) ([]interface{}, error) {
	var out []interface{}
	var processed int
	var bytesProcessed int64
	for {
		row, err := rows()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		bytesProcessed += int64(len(row.Buf))
		rec, berr := bind(row)
		if berr != nil {
			if errors.Is(berr, ErrSkip) {
				continue
			}
			action := ActionThrow
			if handler != nil {
				action = handler(ErrorContext{
					Record: row.RecordNumber,
					Line:   row.SourceLineNumber,
					Err:    berr,
				})
			}
			switch action {
			case ActionSkipRecord, ActionSkipRow:
				continue
			case ActionWriteNull:
				out = append(out, nil)
			default:
				return out, berr
			}
		} else {
			out = append(out, rec)
		}
		processed++
		if report != nil && progressIntervalRows > 0 && processed%progressIntervalRows == 0 {
			report(processed, bytesProcessed, 0)
		}
	}
}
