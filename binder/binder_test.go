package binder

import (
	"errors"
	"io"
	"strconv"
	"testing"

	"github.com/nnnkkk7/tabdsv"
)

type person struct {
	Name string
	Age  int
}

func rowSource(rows []tabdsv.RowView) func() (tabdsv.RowView, error) {
	i := 0
	return func() (tabdsv.RowView, error) {
		if i >= len(rows) {
			return tabdsv.RowView{}, io.EOF
		}
		row := rows[i]
		i++
		return row, nil
	}
}

func makeRow(fields ...string) tabdsv.RowView {
	var sb []byte
	for i, f := range fields {
		if i > 0 {
			sb = append(sb, ',')
		}
		sb = append(sb, f...)
	}
	sb = append(sb, '\n')
	rr := tabdsv.NewReader(byteReader(sb))
	row, err := rr.Read()
	if err != nil {
		panic(err)
	}
	return row
}

type byteReader []byte

func (b byteReader) Read(p []byte) (int, error) {
	n := copy(p, b)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func TestBindAllBindsEachRow(t *testing.T) {
	rows := []tabdsv.RowView{makeRow("alice", "30"), makeRow("bob", "40")}
	bind := func(row tabdsv.RowView) (interface{}, error) {
		age, err := strconv.Atoi(row.FieldString(1))
		if err != nil {
			return nil, err
		}
		return person{Name: row.FieldString(0), Age: age}, nil
	}
	out, err := BindAll(rowSource(rows), bind, nil, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].(person).Name != "alice" || out[1].(person).Age != 40 {
		t.Fatalf("unexpected records: %+v", out)
	}
}

func TestBindAllErrSkipDropsRowSilently(t *testing.T) {
	rows := []tabdsv.RowView{makeRow("alice"), makeRow("skipme"), makeRow("bob")}
	handlerCalled := false
	bind := func(row tabdsv.RowView) (interface{}, error) {
		if row.FieldString(0) == "skipme" {
			return nil, ErrSkip
		}
		return row.FieldString(0), nil
	}
	handler := func(ctx ErrorContext) ErrorAction {
		handlerCalled = true
		return ActionThrow
	}
	out, err := BindAll(rowSource(rows), bind, handler, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handlerCalled {
		t.Fatalf("ErrSkip must not reach the ErrorHandler")
	}
	if len(out) != 2 || out[0] != "alice" || out[1] != "bob" {
		t.Fatalf("unexpected records: %+v", out)
	}
}

func TestBindAllErrorHandlerActionThrowStopsProcessing(t *testing.T) {
	rows := []tabdsv.RowView{makeRow("bad")}
	wantErr := errors.New("boom")
	bind := func(row tabdsv.RowView) (interface{}, error) {
		return nil, wantErr
	}
	handler := func(ctx ErrorContext) ErrorAction { return ActionThrow }
	_, err := BindAll(rowSource(rows), bind, handler, nil, 0)
	if err != wantErr {
		t.Fatalf("expected ActionThrow to surface the bind error, got %v", err)
	}
}

func TestBindAllErrorHandlerActionSkipRecord(t *testing.T) {
	rows := []tabdsv.RowView{makeRow("bad"), makeRow("good")}
	bind := func(row tabdsv.RowView) (interface{}, error) {
		if row.FieldString(0) == "bad" {
			return nil, errors.New("parse failure")
		}
		return row.FieldString(0), nil
	}
	handler := func(ctx ErrorContext) ErrorAction { return ActionSkipRecord }
	out, err := BindAll(rowSource(rows), bind, handler, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0] != "good" {
		t.Fatalf("unexpected records: %+v", out)
	}
}

func TestBindAllErrorHandlerActionWriteNull(t *testing.T) {
	rows := []tabdsv.RowView{makeRow("bad")}
	bind := func(row tabdsv.RowView) (interface{}, error) {
		return nil, errors.New("parse failure")
	}
	handler := func(ctx ErrorContext) ErrorAction { return ActionWriteNull }
	out, err := BindAll(rowSource(rows), bind, handler, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0] != nil {
		t.Fatalf("expected a single nil placeholder record, got %+v", out)
	}
}

func TestBindAllProgressReporterCadence(t *testing.T) {
	rows := []tabdsv.RowView{makeRow("a"), makeRow("b"), makeRow("c"), makeRow("d")}
	bind := func(row tabdsv.RowView) (interface{}, error) { return row.FieldString(0), nil }
	var calls int
	report := func(rowsProcessed int, bytesProcessed, totalBytes int64) { calls++ }
	_, err := BindAll(rowSource(rows), bind, nil, report, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 progress callbacks for 4 rows at interval 2, got %d", calls)
	}
}
