// Package csvfile reads expense tables from delimited text files.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"my/internal/core"
	applog "my/internal/log"
	"my/internal/sheets"
)

const utf8BOM = "\ufeff"

// requiredColumns are checked in this order, so a short row always names
// the first column it lacks.
var requiredColumns = []string{sheets.ColumnTimestamp, sheets.ColumnAmount, sheets.ColumnCategory}

// Reader parses expense files with a header row naming at least the
// Timestamp, Amount and Category columns. Column order is free and extra
// columns are ignored.
type Reader struct {
	// Comma is the field delimiter. Zero means ',' except for .tsv files,
	// which always use a tab.
	Comma rune
}

var _ sheets.ExpenseReader = (*Reader)(nil)

// New returns a Reader using the given delimiter (0 for the default).
func New(comma rune) *Reader {
	return &Reader{Comma: comma}
}

// ReadExpenses implements sheets.ExpenseReader.
func (r *Reader) ReadExpenses(ctx context.Context, path string) ([]core.Expense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	expenses, err := r.parse(ctx, path, f)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Parsed expense file",
		applog.FieldComponent, applog.ComponentExpenses,
		applog.FieldFile, path,
		applog.FieldRows, len(expenses))
	return expenses, nil
}

func (r *Reader) delimiter(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	if r.Comma != 0 {
		return r.Comma
	}
	return ','
}

func (r *Reader) parse(ctx context.Context, path string, src io.Reader) ([]core.Expense, error) {
	cr := csv.NewReader(src)
	cr.Comma = r.delimiter(path)
	cr.FieldsPerRecord = -1 // short rows are reported per column below
	cr.TrimLeadingSpace = cr.Comma != '\t'

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &core.MalformedRecordError{Path: path, Reason: "missing header row"}
	}
	if err != nil {
		return nil, readError(path, 0, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	cols := map[string]int{}
	for _, name := range requiredColumns {
		idx := indexOf(header, name)
		if idx == -1 {
			return nil, &core.MalformedRecordError{Path: path, Column: name, Reason: "column missing from header"}
		}
		cols[name] = idx
	}

	var out []core.Expense
	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(path, row, err)
		}
		if isBlank(record) {
			row--
			continue
		}

		fields := map[string]string{}
		for _, name := range requiredColumns {
			idx := cols[name]
			if idx >= len(record) {
				return nil, &core.MalformedRecordError{Path: path, Row: row, Column: name, Reason: "missing value"}
			}
			fields[name] = strings.TrimSpace(record[idx])
		}

		amount, err := core.ParseAmount(fields[sheets.ColumnAmount])
		if err != nil {
			return nil, &core.MalformedRecordError{
				Path:   path,
				Row:    row,
				Column: sheets.ColumnAmount,
				Reason: fmt.Sprintf("invalid amount %q", fields[sheets.ColumnAmount]),
				Err:    err,
			}
		}

		out = append(out, core.Expense{
			Timestamp: fields[sheets.ColumnTimestamp],
			Amount:    amount,
			Category:  fields[sheets.ColumnCategory],
			Source:    core.Source{File: path, Row: row},
		})
	}
	return out, nil
}

// readError separates CSV syntax problems from I/O failures.
func readError(path string, row int, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &core.MalformedRecordError{Path: path, Row: row, Reason: perr.Err.Error(), Err: err}
	}
	return &core.FileAccessError{Path: path, Err: err}
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
