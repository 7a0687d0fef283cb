package webhook

import (
	"context"
	"iter"
	"net/http"
	"strings"

	"github.com/jonwraymond/kore/apierr"
	"github.com/jonwraymond/kore/internal/service"
	"github.com/jonwraymond/kore/paging"
	"github.com/jonwraymond/kore/request"
)

// Surface defaults.
const (
	Name            = "webhook"
	DefaultBaseURL  = "https://webhook.api.korewireless.com"
	DefaultBasePath = "/v1"
)

// Client calls the webhook API.
type Client struct {
	svc *service.Service
}

// New creates a Client on svc.
func New(svc *service.Service) *Client {
	return &Client{svc: svc}
}

// CreateSecret creates a signing secret. The returned value is not
// retrievable later.
func (c *Client) CreateSecret(ctx context.Context, name string) (*SecretCreated, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &apierr.ValidationError{Field: "Name", Reason: "is required"}
	}
	var out SecretCreated
	err := c.svc.Do(ctx, request.Descriptor{
		Method:   http.MethodPost,
		Path:     "/secrets",
		Body:     service.Fields{"Name": name},
		Expected: []int{http.StatusCreated},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ModifySecret renames or changes the status of a secret.
func (c *Client) ModifySecret(ctx context.Context, id string, r ModifySecretRequest) (*Secret, error) {
	path, err := service.PathID("id", id)
	if err != nil {
		return nil, err
	}
	var out Secret
	err = c.svc.Do(ctx, request.Descriptor{
		Method: http.MethodPatch,
		Path:   "/secrets" + path,
		Body: service.Fields{}.
			String("Name", r.Name).
			String("Status", string(r.Status)),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Secrets lists one page of secrets.
func (c *Client) Secrets(ctx context.Context, p ListParams) (*SecretList, error) {
	q, err := p.query()
	if err != nil {
		return nil, err
	}
	var out SecretList
	if err := c.svc.Do(ctx, request.Descriptor{Path: "/secrets", Query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllSecrets iterates over every secret.
func (c *Client) AllSecrets(ctx context.Context, p ListParams) iter.Seq2[Secret, error] {
	q, err := p.query()
	if err != nil {
		return paging.Fail[Secret](err)
	}
	return service.List[Secret, SecretList](ctx, c.svc, "/secrets", q)
}
