package csvexport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidOption = errors.New("invalid csv option")
)

type Options struct {
	Delimiter        rune
	DateFormat       string
	MaxExportRecords int
	FieldsToExport   []string
}

// Column renders one field of a record. An absent value renders as "".
type Column[T any] func(record T) string

// Exporter renders records as CSV with the configured column selection.
type Exporter[T any] struct {
	opts    Options
	headers []string
	columns []Column[T]
}

// New resolves every configured field against columns (ignoring case) and
// fails on the first field that has no column.
func New[T any](opts Options, columns map[string]Column[T]) (*Exporter[T], error) {
	switch opts.Delimiter {
	case 0, '"', '\r', '\n':
		return nil, fmt.Errorf("%w: delimiter %q", ErrInvalidOption, opts.Delimiter)
	}
	if opts.MaxExportRecords <= 0 {
		return nil, fmt.Errorf("%w: max export records must be positive", ErrInvalidOption)
	}
	if len(opts.FieldsToExport) == 0 {
		return nil, fmt.Errorf("%w: no fields to export", ErrInvalidOption)
	}
	e := &Exporter[T]{opts: opts}
	for _, field := range opts.FieldsToExport {
		col, ok := lookup(columns, field)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		e.headers = append(e.headers, field)
		e.columns = append(e.columns, col)
	}
	return e, nil
}

func lookup[T any](columns map[string]Column[T], field string) (Column[T], bool) {
	if col, ok := columns[field]; ok {
		return col, true
	}
	for name, col := range columns {
		if strings.EqualFold(name, field) {
			return col, true
		}
	}
	return nil, false
}

func (e *Exporter[T]) Options() Options {
	return e.opts
}

// Export writes the header row and at most MaxExportRecords rows.
func (e *Exporter[T]) Export(records []T) ([]byte, error) {
	if len(records) > e.opts.MaxExportRecords {
		records = records[:e.opts.MaxExportRecords]
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = e.opts.Delimiter
	if err := w.Write(e.headers); err != nil {
		return nil, err
	}
	row := make([]string, len(e.columns))
	for _, record := range records {
		for i, col := range e.columns {
			row[i] = col(record)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
