// Package cursor implements keyset pagination over (timestamp desc, id desc)
// A cursor is the id of the last record on the previous page. Consecutive pages
// never skip or repeat a record while the underlying set is unchanged; a write
// between calls may shift at most one record across the page boundary.
package cursor

import (
	"slices"
	"strings"
	"time"

	perr "pestwatch/internal/platform/errors"
)

// DefaultLimit is used when a caller does not provide a page size
const DefaultLimit = 10

// Key is the sort key of a record
type Key struct {
	At time.Time
	ID string
}

// Before reports whether k sorts ahead of o
// newer timestamps first, ties broken by id descending
func (k Key) Before(o Key) bool {
	if !k.At.Equal(o.At) {
		return k.At.After(o.At)
	}
	return k.ID > o.ID
}

// Compare orders keys for slices.SortFunc
func Compare(a, b Key) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	default:
		return 0
	}
}

// Page is one slice of an ordered listing
type Page[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"nextCursor"`
}

// ValidateLimit rejects non positive page sizes
func ValidateLimit(limit int) error {
	if limit <= 0 {
		return perr.WithField(perr.Validationf("limit must be a positive integer, got %d", limit), "limit")
	}
	return nil
}

// UnknownCursor is the error returned when a cursor id does not resolve
func UnknownCursor(id string) error {
	return perr.WithField(perr.Validationf("unknown cursor %q", id), "cursor")
}

// Finish builds a page from up to limit+1 fetched rows
// the extra row only signals that another page exists
func Finish[T any](fetched []T, limit int, id func(T) string) Page[T] {
	if len(fetched) <= limit {
		if fetched == nil {
			fetched = []T{}
		}
		return Page[T]{Items: fetched}
	}
	items := fetched[:limit]
	next := id(items[len(items)-1])
	return Page[T]{Items: items, NextCursor: &next}
}

// Paginate pages an in-memory set
// items need not be sorted; the input slice is not modified
func Paginate[T any](items []T, key func(T) Key, limit int, after string) (Page[T], error) {
	if err := ValidateLimit(limit); err != nil {
		return Page[T]{}, err
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int { return Compare(key(a), key(b)) })

	start := 0
	if after = strings.TrimSpace(after); after != "" {
		idx := slices.IndexFunc(sorted, func(v T) bool { return key(v).ID == after })
		if idx < 0 {
			return Page[T]{}, UnknownCursor(after)
		}
		start = idx + 1
	}

	end := min(start+limit+1, len(sorted))
	return Finish(sorted[start:end], limit, func(v T) string { return key(v).ID }), nil
}
