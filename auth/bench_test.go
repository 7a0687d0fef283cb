package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func BenchmarkAuthority_ValidTokenCached(b *testing.B) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"access_token":"bench-token","expires_in":3600}`))
	}))
	defer srv.Close()

	a, err := NewAuthority(AuthorityConfig{Credentials: testCreds, BaseURL: srv.URL})
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	if _, err := a.ValidToken(ctx); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := a.ValidToken(ctx); err != nil {
				b.Error(err)
				return
			}
		}
	})
	b.StopTimer()

	if hits.Load() != 1 {
		b.Errorf("token requests = %d, want 1", hits.Load())
	}
}

func BenchmarkValidateCredentials(b *testing.B) {
	for b.Loop() {
		_ = ValidateCredentials(testCreds)
	}
}
