package clientapi

import (
	"context"

	"github.com/jonwraymond/kore/internal/service"
	"github.com/jonwraymond/kore/request"
)

// Surface defaults.
const (
	Name            = "client"
	DefaultBaseURL  = "https://client.api.korewireless.com"
	DefaultBasePath = "/v1"
)

// PingResponse is the reply of the ping endpoint.
type PingResponse struct {
	Message string `json:"message"`
}

// Client calls the client API.
type Client struct {
	svc *service.Service
}

// New creates a Client on svc.
func New(svc *service.Service) *Client {
	return &Client{svc: svc}
}

// Ping checks that the API is reachable and the credentials are accepted.
func (c *Client) Ping(ctx context.Context) (*PingResponse, error) {
	var out PingResponse
	if err := c.svc.Do(ctx, request.Descriptor{Path: "/ping"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
