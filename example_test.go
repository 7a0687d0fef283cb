package kore_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/jonwraymond/kore"
	"github.com/jonwraymond/kore/paging"
	"github.com/jonwraymond/kore/wireless"
)

func ExampleNewClient() {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"example-token","expires_in":3600}`))
	})
	mux.HandleFunc("GET /v1/Sims", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sims":[{"sid":"HS001","status":"active"},{"sid":"HS002","status":"ready"}],"meta":{}}`))
	})
	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	client, err := kore.NewClient(kore.Config{
		ClientID:     "my-client",
		ClientSecret: "my-secret",
		AuthURL:      srv.URL,
		WirelessURL:  srv.URL,
		HTTPClient:   srv.Client(),
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() { _ = client.Close() }()

	sims, err := paging.Collect(client.Wireless.AllSims(context.Background(), wireless.SimFilter{}))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, sim := range sims {
		fmt.Println(sim.SID, sim.Status)
	}
	// Output:
	// HS001 active
	// HS002 ready
}
