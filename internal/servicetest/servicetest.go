// Package servicetest wires a service.Service to an httptest TLS server for
// the resource client tests.
package servicetest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jonwraymond/kore/internal/service"
	"github.com/jonwraymond/kore/request"
)

// Token is the bearer token the static source hands out.
const Token = "test-token"

// StaticTokens is a request.TokenSource with a fixed token.
type StaticTokens struct {
	mu          sync.Mutex
	invalidated int
}

// ValidToken returns Token.
func (s *StaticTokens) ValidToken(context.Context) (string, error) {
	return Token, nil
}

// InvalidateToken counts invalidations of Token.
func (s *StaticTokens) InvalidateToken(accessToken string) {
	if accessToken != Token {
		return
	}
	s.mu.Lock()
	s.invalidated++
	s.mu.Unlock()
}

// Invalidations returns the number of InvalidateToken calls for Token.
func (s *StaticTokens) Invalidations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidated
}

// Call is one request seen by the server.
type Call struct {
	Method string
	Path   string
	Query  string
	Form   map[string][]string
	Header http.Header
}

// Server records calls and answers them with its handler.
type Server struct {
	*httptest.Server
	Tokens *StaticTokens

	mu    sync.Mutex
	calls []Call
}

// Calls returns a copy of the recorded calls.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Last returns the most recent call.
func (s *Server) Last(t *testing.T) Call {
	t.Helper()
	calls := s.Calls()
	if len(calls) == 0 {
		t.Fatal("no calls recorded")
	}
	return calls[len(calls)-1]
}

// New starts a TLS server running h and returns a Service bound to it
// under basePath. Both are closed with the test.
func New(t *testing.T, basePath string, h http.HandlerFunc) (*service.Service, *Server) {
	t.Helper()

	srv := &Server{Tokens: &StaticTokens{}}
	srv.Server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form := map[string][]string{}
		if r.PostForm != nil {
			for k, v := range r.PostForm {
				form[k] = v
			}
		}
		srv.mu.Lock()
		srv.calls = append(srv.calls, Call{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Form:   form,
			Header: r.Header.Clone(),
		})
		srv.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	p, err := request.NewPipeline(request.PipelineConfig{
		API:         "test",
		BaseURL:     srv.URL,
		BasePath:    basePath,
		TokenSource: srv.Tokens,
		HTTPClient:  srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewPipeline() error = %v", err)
	}
	return service.New(p, nil), srv
}

// JSON writes body as a JSON response with status.
func JSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
