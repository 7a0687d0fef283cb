package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonwraymond/kore/observe"
	"github.com/jonwraymond/kore/secret"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("KORE_CLIENT_ID", "cid")
	t.Setenv("KORE_CLIENT_SECRET", "csecret")

	cfg, err := Load(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Credentials.ClientID != "cid" || cfg.Credentials.ClientSecret != "csecret" {
		t.Errorf("Credentials = %+v", cfg.Credentials)
	}
	if cfg.RequestsPerSecond != 10 {
		t.Errorf("RequestsPerSecond = %v, want 10", cfg.RequestsPerSecond)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.InitialDelay != time.Second || cfg.Retry.Multiplier != 2 {
		t.Errorf("Retry = %+v", cfg.Retry)
	}
	if !cfg.Telemetry.Logging.Enabled || cfg.Telemetry.Logging.Level != "info" {
		t.Errorf("Logging = %+v", cfg.Telemetry.Logging)
	}
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	path := writeFile(t, "kore.yaml", `
credentials:
  client_id: file-id
  client_secret: file-secret
endpoints:
  wireless: https://wireless.example.com
requests_per_second: 5
timeout: 10s
retry:
  max_attempts: 5
  initial_delay: 250ms
telemetry:
  logging:
    level: debug
`)
	t.Setenv("KORE_REQUESTS_PER_SECOND", "2")
	t.Setenv("KORE_CREDENTIALS_CLIENT_ID", "env-id")

	cfg, err := Load(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Credentials.ClientID != "env-id" {
		t.Errorf("ClientID = %q, want env override", cfg.Credentials.ClientID)
	}
	if cfg.Credentials.ClientSecret != "file-secret" {
		t.Errorf("ClientSecret = %q, want file value", cfg.Credentials.ClientSecret)
	}
	if cfg.RequestsPerSecond != 2 {
		t.Errorf("RequestsPerSecond = %v, want 2", cfg.RequestsPerSecond)
	}
	if cfg.Timeout != 10*time.Second || cfg.Retry.MaxAttempts != 5 || cfg.Retry.InitialDelay != 250*time.Millisecond {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Endpoints.Wireless != "https://wireless.example.com" {
		t.Errorf("Wireless = %q", cfg.Endpoints.Wireless)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoad_ResolvesSecretRefs(t *testing.T) {
	secretPath := writeFile(t, "client_secret", "from-file\n")
	t.Setenv("KORE_TEST_ID_SOURCE", "from-env")
	path := writeFile(t, "kore.yaml", `
credentials:
  client_id: secretref:env:KORE_TEST_ID_SOURCE
  client_secret: secretref:file:`+secretPath+`
`)

	cfg, err := Load(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Credentials.ClientID != "from-env" || cfg.Credentials.ClientSecret != "from-file" {
		t.Errorf("Credentials = %+v", cfg.Credentials)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"missing credentials", "requests_per_second: 1\n", ErrMissingCredentials},
		{"unknown provider", "credentials:\n  client_id: secretref:vault:x\n  client_secret: s\n", secret.ErrUnknownProvider},
		{"missing env", "credentials:\n  client_id: ${KORE_TEST_UNSET_VAR}\n  client_secret: s\n", secret.ErrMissingEnv},
		{"bad log level", "credentials:\n  client_id: a\n  client_secret: b\ntelemetry:\n  logging:\n    level: loud\n", observe.ErrInvalidLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "kore.yaml", tt.content)
			if _, err := Load(context.Background(), path, nil); !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad_InvalidNumbers(t *testing.T) {
	path := writeFile(t, "kore.yaml", "credentials:\n  client_id: a\n  client_secret: b\nrequests_per_second: 0\n")
	if _, err := Load(context.Background(), path, nil); err == nil {
		t.Error("requests_per_second 0 must fail")
	}
	path = writeFile(t, "kore.yaml", "credentials:\n  client_id: a\n  client_secret: b\nretry:\n  max_attempts: 0\n")
	if _, err := Load(context.Background(), path, nil); err == nil {
		t.Error("retry.max_attempts 0 must fail")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("missing file must fail")
	}
}

func TestConfig_ClientConfig(t *testing.T) {
	cfg := &Config{
		Credentials:       Credentials{ClientID: "a", ClientSecret: "b"},
		Endpoints:         Endpoints{Auth: "https://auth.example.com", Client: "https://client.example.com"},
		RequestsPerSecond: 4,
		Timeout:           time.Second,
		Retry:             Retry{MaxAttempts: 2, InitialDelay: time.Millisecond},
	}

	kc := cfg.ClientConfig(nil)
	if kc.ClientID != "a" || kc.AuthURL != "https://auth.example.com" || kc.ClientURL != "https://client.example.com" {
		t.Errorf("ClientConfig() = %+v", kc)
	}
	if kc.RequestsPerSecond != 4 || kc.Retry.MaxAttempts != 2 || kc.Retry.InitialDelay != time.Millisecond {
		t.Errorf("ClientConfig() = %+v", kc)
	}
}
