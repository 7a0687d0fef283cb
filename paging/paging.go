package paging

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/jonwraymond/kore/apierr"
)

// MaxPageSize is the largest page the services return.
const MaxPageSize = 100

// Params selects one page of a list endpoint. Zero fields are omitted.
type Params struct {
	// PageSize is the number of items per page, 1 to 100.
	PageSize int

	// Page is the page number, starting at 1.
	Page int

	// PageToken is an opaque cursor returned by a previous page.
	PageToken string
}

// Validate reports out-of-range values as *apierr.ValidationError.
func (p Params) Validate() error {
	if p.PageSize < 0 || p.PageSize > MaxPageSize {
		return &apierr.ValidationError{
			Field:  "PageSize",
			Reason: fmt.Sprintf("must be between 1 and %d", MaxPageSize),
		}
	}
	if p.Page < 0 {
		return &apierr.ValidationError{Field: "Page", Reason: "must be at least 1"}
	}
	return nil
}

// Apply adds the set fields to q under the PageSize, Page and PageToken
// names and returns q. A nil q is allocated.
func (p Params) Apply(q url.Values) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if p.PageSize > 0 {
		q.Set("PageSize", strconv.Itoa(p.PageSize))
	}
	if p.Page > 0 {
		q.Set("Page", strconv.Itoa(p.Page))
	}
	if p.PageToken != "" {
		q.Set("PageToken", p.PageToken)
	}
	return q
}

// Meta is the pagination block of a list response.
type Meta struct {
	Page            int    `json:"page,omitempty"`
	PageSize        int    `json:"page_size,omitempty"`
	PageNumber      int    `json:"page_number,omitempty"`
	Count           int    `json:"count,omitempty"`
	Key             string `json:"key,omitempty"`
	URL             string `json:"url,omitempty"`
	FirstPageURL    string `json:"first_page_url,omitempty"`
	PreviousPageURL string `json:"previous_page_url,omitempty"`
	NextPageURL     string `json:"next_page_url,omitempty"`
}

// Page is one fetched page: its items and the cursor to the next one.
type Page[T any] struct {
	Items []T

	// Next is the next_page_url cursor, empty on the last page.
	Next string
}

// Fetcher loads the page at cursor. The first call receives "".
type Fetcher[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Paginate returns a single-use sequence over every item of every page.
//
// Pages are fetched lazily. The first error, including ctx cancellation,
// is yielded once and ends the sequence.
func Paginate[T any](ctx context.Context, fetch Fetcher[T]) iter.Seq2[T, error] {
	var used atomic.Bool

	return func(yield func(T, error) bool) {
		var zero T
		if !used.CompareAndSwap(false, true) {
			yield(zero, ErrConsumed)
			return
		}

		seen := make(map[string]struct{})
		cursor := ""
		for {
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}

			page, err := fetch(ctx, cursor)
			if err != nil {
				yield(zero, err)
				return
			}
			for _, item := range page.Items {
				if !yield(item, nil) {
					return
				}
			}

			if page.Next == "" {
				return
			}
			if _, ok := seen[page.Next]; ok {
				yield(zero, fmt.Errorf("%w: %s", ErrCursorLoop, page.Next))
				return
			}
			seen[page.Next] = struct{}{}
			cursor = page.Next
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for item, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
	return out, nil
}

// CursorQuery returns the query to request the page at cursor.
//
// Only the query of a next_page_url is reused, so a cursor can never
// redirect a call to another host or path. An empty cursor yields base.
func CursorQuery(base url.Values, cursor string) (url.Values, error) {
	if cursor == "" {
		return base, nil
	}
	u, err := url.Parse(cursor)
	if err != nil {
		return nil, &apierr.ParseError{Err: fmt.Errorf("invalid next page url: %w", err)}
	}
	return u.Query(), nil
}

// Fail returns a sequence that yields err once. List calls use it to
// report invalid arguments through the same channel as fetch errors.
func Fail[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}
