// Package ingest turns loosely typed rows (CSV lines, JSON objects) into
// validated records. A bad row is recorded and skipped; it never aborts the
// batch.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validation"
)

// Row is one input record keyed by column name.
type Row map[string]any

// Kind describes how rows become records of type T.
type Kind[T any] struct {
	// Name keys the records in the JSON result, e.g. "users".
	Name     string
	Required []string
	// Convert validates, normalizes and builds the record for the row with
	// the given 1-based ordinal.
	Convert func(ordinal int64, row Row, now time.Time) (T, error)
}

type Result[T any] struct {
	Kind        string
	ProcessedAt time.Time
	Records     []T
	Errors      []string

	rows []int64
}

func (r *Result[T]) TotalProcessed() int { return len(r.Records) }
func (r *Result[T]) TotalErrors() int    { return len(r.Errors) }

func (r *Result[T]) MarshalJSON() ([]byte, error) {
	errs := r.Errors
	if errs == nil {
		errs = []string{}
	}
	head, err := json.Marshal(struct {
		ProcessedAt    time.Time `json:"processed_at"`
		TotalProcessed int       `json:"total_processed"`
		TotalErrors    int       `json:"total_errors"`
		Errors         []string  `json:"errors"`
	}{r.ProcessedAt, r.TotalProcessed(), r.TotalErrors(), errs})
	if err != nil {
		return nil, err
	}

	records := r.Records
	if records == nil {
		records = []T{}
	}
	body, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	key, err := json.Marshal(r.Kind)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(head)+len(key)+len(body)+2)
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	out = append(out, key...)
	out = append(out, ':')
	out = append(out, body...)
	out = append(out, '}')
	return out, nil
}

// Run processes rows in order. now stamps the result and the created records.
func Run[T any](rows []Row, kind Kind[T], now time.Time) *Result[T] {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	res := &Result[T]{Kind: kind.Name, ProcessedAt: now}

	for i, row := range rows {
		n := int64(i + 1)

		if missing := requiredErrors(row, kind.Required); missing != "" {
			res.Errors = append(res.Errors, rowError(n, missing))
			continue
		}

		rec, err := kind.Convert(n, row, now)
		if err != nil {
			res.Errors = append(res.Errors, rowError(n, err.Error()))
			continue
		}
		res.Records = append(res.Records, rec)
		res.rows = append(res.rows, n)
	}
	return res
}

// Store saves every record through create and keeps the stored versions.
// Records that fail to save move to Errors under their row number. Only a
// cancelled context stops the loop.
func (r *Result[T]) Store(ctx context.Context, create func(context.Context, T) (T, error)) error {
	kept := make([]T, 0, len(r.Records))
	keptRows := make([]int64, 0, len(r.rows))
	for i, rec := range r.Records {
		if err := ctx.Err(); err != nil {
			return err
		}
		stored, err := create(ctx, rec)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			r.Errors = append(r.Errors, rowError(r.rows[i], err.Error()))
			continue
		}
		kept = append(kept, stored)
		keptRows = append(keptRows, r.rows[i])
	}
	r.Records, r.rows = kept, keptRows
	return nil
}

func rowError(n int64, msg string) string {
	return fmt.Sprintf("Row %d: %s", n, msg)
}

func requiredErrors(row Row, required []string) string {
	errs := validation.RequiredFieldErrors(row, required)
	if len(errs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, ", ")
}
