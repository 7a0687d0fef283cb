package webhook

import (
	"net/url"
	"strconv"

	"github.com/jonwraymond/kore/apierr"
	"github.com/jonwraymond/kore/paging"
)

// SecretStatus is the state of a signing secret.
type SecretStatus string

// Secret states.
const (
	SecretActive  SecretStatus = "active"
	SecretPending SecretStatus = "pending"
)

// Secret is a signing secret without its value.
type Secret struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Status       SecretStatus `json:"status"`
	LastModified string       `json:"last_modified,omitempty"`
}

// SecretCreated is a new signing secret. Secret is only returned once.
type SecretCreated struct {
	Secret
	Value string `json:"secret"`
}

// ListMeta is the pagination block of a secret listing.
type ListMeta struct {
	Count           int    `json:"count"`
	PageSize        int    `json:"page_size"`
	PageNumber      int    `json:"page_number"`
	PreviousPageURL string `json:"previous_page_url,omitempty"`
	NextPageURL     string `json:"next_page_url,omitempty"`
}

// SecretList is a page of secrets.
type SecretList struct {
	Data []Secret `json:"data"`
	Meta ListMeta `json:"meta_data"`
}

// Page implements service.Lister.
func (l *SecretList) Page() paging.Page[Secret] {
	return paging.Page[Secret]{Items: l.Data, Next: l.Meta.NextPageURL}
}

// ModifySecretRequest changes a secret. Empty fields are not sent.
type ModifySecretRequest struct {
	Name   string
	Status SecretStatus
}

// ListParams selects one page of secrets. Zero fields are omitted.
type ListParams struct {
	PageSize   int
	PageNumber int
}

func (p ListParams) query() (url.Values, error) {
	if p.PageSize < 0 || p.PageSize > paging.MaxPageSize {
		return nil, &apierr.ValidationError{Field: "page_size", Reason: "must be between 1 and 100"}
	}
	if p.PageNumber < 0 {
		return nil, &apierr.ValidationError{Field: "page_number", Reason: "must not be negative"}
	}
	q := url.Values{}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.PageNumber > 0 {
		q.Set("page_number", strconv.Itoa(p.PageNumber))
	}
	return q, nil
}
