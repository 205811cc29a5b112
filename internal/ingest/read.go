package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var (
	ErrEmptyInput        = errors.New("input has no header row")
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// ParseFormat accepts "csv" or "json"; empty means guess from path.
func ParseFormat(s, path string) (Format, error) {
	if s == "" {
		s = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ReadFile reads rows from path in the given format.
func ReadFile(path string, format Format) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

func Read(r io.Reader, format Format) ([]Row, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSON:
		return ReadJSON(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
}

// ReadCSV maps every record to the header row. Empty cells stay "".
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadJSON expects an array of flat objects. Numbers keep their literal text.
func ReadJSON(r io.Reader) ([]Row, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyInput
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var objs []map[string]any
	if err := dec.Decode(&objs); err != nil {
		return nil, fmt.Errorf("decode json rows: %w", err)
	}

	rows := make([]Row, 0, len(objs))
	for i, obj := range objs {
		for k, v := range obj {
			switch v.(type) {
			case nil, string, bool, json.Number:
			default:
				return nil, fmt.Errorf("row %d field %q: nested values are not supported", i+1, k)
			}
		}
		rows = append(rows, Row(obj))
	}
	return rows, nil
}
