// Package service binds a request pipeline to the resilience executor of
// one KORE API surface and carries the helpers shared by the resource
// clients.
package service

import (
	"context"
	"iter"
	"net/url"
	"strings"

	"github.com/jonwraymond/kore/apierr"
	"github.com/jonwraymond/kore/paging"
	"github.com/jonwraymond/kore/request"
	"github.com/jonwraymond/kore/resilience"
)

// Service sends calls for one API surface through its rate limiter and
// retry policy.
type Service struct {
	pipeline *request.Pipeline
	executor *resilience.Executor
}

// New creates a Service. A nil executor sends calls directly.
func New(p *request.Pipeline, e *resilience.Executor) *Service {
	if e == nil {
		e = resilience.NewExecutor()
	}
	return &Service{pipeline: p, executor: e}
}

// Name returns the API surface name.
func (s *Service) Name() string {
	return s.pipeline.API()
}

// Do sends d and decodes the response body into out, which may be nil.
func (s *Service) Do(ctx context.Context, d request.Descriptor, out any) error {
	return s.executor.Execute(ctx, func(ctx context.Context) error {
		return s.pipeline.SendInto(ctx, d, out)
	})
}

// Lister is a list response that exposes its page of T. P is the pointer
// to the response struct R.
type Lister[T any, R any] interface {
	*R
	Page() paging.Page[T]
}

// List returns a lazy sequence over every item of a list endpoint,
// starting at query and following next_page_url.
func List[T any, R any, P Lister[T, R]](ctx context.Context, s *Service, path string, query url.Values) iter.Seq2[T, error] {
	return paging.Paginate(ctx, func(ctx context.Context, cursor string) (paging.Page[T], error) {
		q, err := paging.CursorQuery(query, cursor)
		if err != nil {
			return paging.Page[T]{}, err
		}
		var resp R
		if err := s.Do(ctx, request.Descriptor{Path: path, Query: q}, &resp); err != nil {
			return paging.Page[T]{}, err
		}
		return P(&resp).Page(), nil
	})
}

// PathID escapes a resource identifier for use as a path segment.
func PathID(field, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", &apierr.ValidationError{Field: field, Reason: "is required"}
	}
	return "/" + url.PathEscape(id), nil
}

// Fields accumulates a request body, skipping unset values.
type Fields map[string]any

// String sets key when v is non-empty.
func (f Fields) String(key, v string) Fields {
	if v != "" {
		f[key] = v
	}
	return f
}

// Bool sets key when v is non-nil.
func (f Fields) Bool(key string, v *bool) Fields {
	if v != nil {
		f[key] = *v
	}
	return f
}

// Int sets key when v is non-nil.
func (f Fields) Int(key string, v *int) Fields {
	if v != nil {
		f[key] = *v
	}
	return f
}

// Strings sets key when v is non-empty.
func (f Fields) Strings(key string, v []string) Fields {
	if len(v) > 0 {
		f[key] = v
	}
	return f
}

// Query accumulates query parameters, skipping empty values.
type Query url.Values

// Set sets key when v is non-empty.
func (q Query) Set(key, v string) Query {
	if v != "" {
		url.Values(q).Set(key, v)
	}
	return q
}

// Values returns q as url.Values.
func (q Query) Values() url.Values {
	return url.Values(q)
}
