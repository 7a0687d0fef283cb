package wireless

import (
	"context"
	"iter"
	"net/http"
	"net/url"

	"github.com/jonwraymond/kore/apierr"
	"github.com/jonwraymond/kore/internal/service"
	"github.com/jonwraymond/kore/paging"
	"github.com/jonwraymond/kore/request"
)

// Surface defaults.
const (
	Name            = "wireless"
	DefaultBaseURL  = "https://programmable-wireless.api.korewireless.com"
	DefaultBasePath = "/v1"
)

// Client calls the Programmable Wireless API.
type Client struct {
	svc *service.Service
}

// New creates a Client on svc.
func New(svc *service.Service) *Client {
	return &Client{svc: svc}
}

// UsageRecords lists account usage.
func (c *Client) UsageRecords(ctx context.Context, f UsageFilter) (*UsageList, error) {
	q, err := f.query()
	if err != nil {
		return nil, err
	}
	var out UsageList
	if err := c.svc.Do(ctx, request.Descriptor{Path: "/UsageRecords", Query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllUsageRecords iterates over every account usage record.
func (c *Client) AllUsageRecords(ctx context.Context, f UsageFilter) iter.Seq2[UsageRecord, error] {
	q, err := f.query()
	if err != nil {
		return paging.Fail[UsageRecord](err)
	}
	return service.List[UsageRecord, UsageList](ctx, c.svc, "/UsageRecords", q)
}

// SimUsageRecords lists the usage of one SIM.
func (c *Client) SimUsageRecords(ctx context.Context, sid string, f UsageFilter) (*UsageList, error) {
	id, err := service.PathID("sid", sid)
	if err != nil {
		return nil, err
	}
	q, err := f.query()
	if err != nil {
		return nil, err
	}
	var out UsageList
	if err := c.svc.Do(ctx, request.Descriptor{Path: "/Sims" + id + "/UsageRecords", Query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RatePlans lists rate plans.
func (c *Client) RatePlans(ctx context.Context, p PageParams) (*RatePlanList, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var out RatePlanList
	if err := c.svc.Do(ctx, request.Descriptor{Path: "/RatePlans", Query: p.Apply(nil)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllRatePlans iterates over every rate plan.
func (c *Client) AllRatePlans(ctx context.Context, p PageParams) iter.Seq2[RatePlan, error] {
	if err := p.Validate(); err != nil {
		return paging.Fail[RatePlan](err)
	}
	return service.List[RatePlan, RatePlanList](ctx, c.svc, "/RatePlans", p.Apply(nil))
}

// CreateRatePlan creates a rate plan.
func (c *Client) CreateRatePlan(ctx context.Context, r RatePlanRequest) (*RatePlan, error) {
	var out RatePlan
	err := c.svc.Do(ctx, request.Descriptor{
		Method:   http.MethodPost,
		Path:     "/RatePlans",
		Body:     r.fields(),
		Expected: []int{http.StatusOK, http.StatusAccepted},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RatePlan fetches one rate plan.
func (c *Client) RatePlan(ctx context.Context, sid string) (*RatePlan, error) {
	id, err := service.PathID("sid", sid)
	if err != nil {
		return nil, err
	}
	var out RatePlan
	if err := c.svc.Do(ctx, request.Descriptor{Path: "/RatePlans" + id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRatePlan changes a rate plan.
func (c *Client) UpdateRatePlan(ctx context.Context, sid string, r RatePlanRequest) (*RatePlan, error) {
	id, err := service.PathID("sid", sid)
	if err != nil {
		return nil, err
	}
	var out RatePlan
	err = c.svc.Do(ctx, request.Descriptor{
		Method: http.MethodPost,
		Path:   "/RatePlans" + id,
		Body:   r.fields(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRatePlan deletes a rate plan.
func (c *Client) DeleteRatePlan(ctx context.Context, sid string) error {
	id, err := service.PathID("sid", sid)
	if err != nil {
		return err
	}
	return c.svc.Do(ctx, request.Descriptor{
		Method:   http.MethodDelete,
		Path:     "/RatePlans" + id,
		Expected: []int{http.StatusNoContent},
	}, nil)
}

// Sims lists SIMs.
func (c *Client) Sims(ctx context.Context, f SimFilter) (*SimList, error) {
	q, err := f.query()
	if err != nil {
		return nil, err
	}
	var out SimList
	if err := c.svc.Do(ctx, request.Descriptor{Path: "/Sims", Query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllSims iterates over every SIM matching f.
func (c *Client) AllSims(ctx context.Context, f SimFilter) iter.Seq2[Sim, error] {
	q, err := f.query()
	if err != nil {
		return paging.Fail[Sim](err)
	}
	return service.List[Sim, SimList](ctx, c.svc, "/Sims", q)
}

// Sim fetches one SIM.
func (c *Client) Sim(ctx context.Context, sid string) (*Sim, error) {
	id, err := service.PathID("sid", sid)
	if err != nil {
		return nil, err
	}
	var out Sim
	if err := c.svc.Do(ctx, request.Descriptor{Path: "/Sims" + id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSim changes a SIM.
func (c *Client) UpdateSim(ctx context.Context, sid string, r UpdateSimRequest) (*Sim, error) {
	id, err := service.PathID("sid", sid)
	if err != nil {
		return nil, err
	}
	var out Sim
	err = c.svc.Do(ctx, request.Descriptor{
		Method:   http.MethodPost,
		Path:     "/Sims" + id,
		Body:     r.fields(),
		Expected: []int{http.StatusOK, http.StatusAccepted},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSim deletes a SIM.
func (c *Client) DeleteSim(ctx context.Context, sid string) error {
	id, err := service.PathID("sid", sid)
	if err != nil {
		return err
	}
	return c.svc.Do(ctx, request.Descriptor{
		Method:   http.MethodDelete,
		Path:     "/Sims" + id,
		Expected: []int{http.StatusNoContent},
	}, nil)
}

// Commands lists commands.
func (c *Client) Commands(ctx context.Context, f CommandFilter) (*CommandList, error) {
	q, err := f.query()
	if err != nil {
		return nil, err
	}
	var out CommandList
	if err := c.svc.Do(ctx, request.Descriptor{Path: "/Commands", Query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllCommands iterates over every command matching f.
func (c *Client) AllCommands(ctx context.Context, f CommandFilter) iter.Seq2[Command, error] {
	q, err := f.query()
	if err != nil {
		return paging.Fail[Command](err)
	}
	return service.List[Command, CommandList](ctx, c.svc, "/Commands", q)
}

// CreateCommand sends a command to a SIM.
func (c *Client) CreateCommand(ctx context.Context, r CreateCommandRequest) (*Command, error) {
	if r.Command == "" {
		return nil, &apierr.ValidationError{Field: "Command", Reason: "is required"}
	}
	var out Command
	err := c.svc.Do(ctx, request.Descriptor{
		Method:   http.MethodPost,
		Path:     "/Commands",
		Body:     r.fields(),
		Expected: []int{http.StatusCreated, http.StatusAccepted},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCommand deletes a command.
func (c *Client) DeleteCommand(ctx context.Context, sid string) error {
	id, err := service.PathID("sid", sid)
	if err != nil {
		return err
	}
	return c.svc.Do(ctx, request.Descriptor{
		Method:   http.MethodDelete,
		Path:     "/Commands" + id,
		Expected: []int{http.StatusAccepted, http.StatusNoContent},
	}, nil)
}

// DataSessions lists the data sessions of a SIM.
func (c *Client) DataSessions(ctx context.Context, sid string, p PageParams) (*DataSessionList, error) {
	path, q, err := dataSessions(sid, p)
	if err != nil {
		return nil, err
	}
	var out DataSessionList
	if err := c.svc.Do(ctx, request.Descriptor{Path: path, Query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllDataSessions iterates over every data session of a SIM.
func (c *Client) AllDataSessions(ctx context.Context, sid string, p PageParams) iter.Seq2[DataSession, error] {
	path, q, err := dataSessions(sid, p)
	if err != nil {
		return paging.Fail[DataSession](err)
	}
	return service.List[DataSession, DataSessionList](ctx, c.svc, path, q)
}

func dataSessions(sid string, p PageParams) (string, url.Values, error) {
	id, err := service.PathID("sid", sid)
	if err != nil {
		return "", nil, err
	}
	if err := p.Validate(); err != nil {
		return "", nil, err
	}
	return "/Sims" + id + "/DataSessions", p.Apply(nil), nil
}
