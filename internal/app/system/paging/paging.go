// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InboxPageSize is the default number of notifications returned per page.
// Mobile clients fetch small pages and scroll.
const InboxPageSize = 20

// MaxInboxPageSize caps the limit query parameter.
const MaxInboxPageSize = 100

// ParseLimit extracts the "limit" query parameter, clamped to
// [1, MaxInboxPageSize]. Returns InboxPageSize if absent or invalid.
func ParseLimit(r *http.Request) int64 {
	s := query.Get(r, "limit")
	if s == "" {
		return InboxPageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return InboxPageSize
	}
	if n > MaxInboxPageSize {
		return MaxInboxPageSize
	}
	return int64(n)
}

// ParseBefore extracts the "before" query parameter as an RFC 3339
// timestamp. Returns nil if the parameter is absent; ok=false if it is
// present but malformed.
func ParseBefore(r *http.Request) (before *time.Time, ok bool) {
	s := query.Get(r, "before")
	if s == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// LimitPlusOne returns limit+1 for look-ahead pagination (fetch one
// extra document to detect whether more rows exist).
func LimitPlusOne(limit int64) int64 { return limit + 1 }

// TrimMore trims a slice fetched with LimitPlusOne back to limit rows.
// It modifies the slice in place and reports whether a further page
// exists.
func TrimMore[T any](rows *[]T, limit int64) bool {
	if int64(len(*rows)) > limit {
		*rows = (*rows)[:limit]
		return true
	}
	return false
}

/*─── keyset pagination for alphabetical directories ─────────────────────────*/

// DirectoryPageSize is the number of rows per page in admin directory
// listings (the account directory). These lists sort on a folded text
// key and page with opaque cursors rather than timestamps.
const DirectoryPageSize = 50

// DirectoryLimitPlusOne returns DirectoryPageSize+1 as int64 for
// look-ahead pagination.
func DirectoryLimitPlusOne() int64 { return int64(DirectoryPageSize + 1) }

// Direction indicates the pagination direction.
type Direction int

const (
	Forward  Direction = iota // sort ascending, use "gt" for cursor
	Backward                  // sort descending, use "lt" for cursor
)

// KeysetConfig holds the result of configuring keyset pagination.
type KeysetConfig struct {
	Direction Direction
	SortOrder int // 1 for ascending, -1 for descending
	Cursor    *wafflemongo.Cursor
}

// ConfigureKeyset determines pagination direction and decodes the
// cursor. A malformed cursor is ignored and the page starts from the
// top.
func ConfigureKeyset(before, after string) KeysetConfig {
	cfg := KeysetConfig{Direction: Forward, SortOrder: 1}

	if before != "" {
		cfg.Direction = Backward
		cfg.SortOrder = -1
		if c, ok := wafflemongo.DecodeCursor(before); ok {
			cfg.Cursor = &c
		}
	} else if after != "" {
		if c, ok := wafflemongo.DecodeCursor(after); ok {
			cfg.Cursor = &c
		}
	}

	return cfg
}

// ApplyToFind configures FindOptions with sort and limit for keyset
// pagination over sortField.
func (cfg KeysetConfig) ApplyToFind(find *options.FindOptions, sortField string) {
	find.SetSort(bson.D{
		{Key: sortField, Value: cfg.SortOrder},
		{Key: "_id", Value: cfg.SortOrder},
	}).SetLimit(DirectoryLimitPlusOne())
}

// KeysetWindow returns the cursor condition for the query filter, or
// nil if no cursor is set.
func (cfg KeysetConfig) KeysetWindow(sortField string) bson.M {
	if cfg.Cursor == nil {
		return nil
	}
	dir := "gt"
	if cfg.Direction == Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, cfg.Cursor.CI, cfg.Cursor.ID)
}

// Result holds the output of TrimPage.
type Result struct {
	HasPrev bool
	HasNext bool
}

// TrimPage trims a slice fetched with DirectoryLimitPlusOne. Call it
// after the Find; it modifies the slice in place and returns the
// prev/next indicators.
//
// When paging backwards (before != "") the extra row is the one beyond
// the older edge, so it is trimmed from the front; a next page always
// exists because we came from it. Forwards, the extra row is trimmed
// from the back and a previous page exists only when after was given.
func TrimPage[T any](rows *[]T, before, after string) Result {
	orig := len(*rows)
	var res Result

	if before != "" {
		if orig > DirectoryPageSize {
			*rows = (*rows)[1:]
			res.HasPrev = true
		}
		res.HasNext = true
	} else {
		if orig > DirectoryPageSize {
			*rows = (*rows)[:DirectoryPageSize]
			res.HasNext = true
		}
		res.HasPrev = after != ""
	}

	return res
}

// Reverse reverses a slice in place. Use after fetching backwards to
// restore display order.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// BuildCursors creates prev/next cursor strings from the first and last
// elements. keyFn extracts the sort key, idFn the ObjectID.
func BuildCursors[T any](rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) (prev, next string) {
	if len(rows) == 0 {
		return "", ""
	}
	first := rows[0]
	last := rows[len(rows)-1]
	prev = wafflemongo.EncodeCursor(keyFn(first), idFn(first))
	next = wafflemongo.EncodeCursor(keyFn(last), idFn(last))
	return prev, next
}
