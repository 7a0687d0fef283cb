package supersim

import (
	"context"
	"net/http"

	"github.com/jonwraymond/kore/apierr"
	"github.com/jonwraymond/kore/internal/service"
	"github.com/jonwraymond/kore/request"
)

// Surface defaults.
const (
	Name            = "supersim"
	DefaultBaseURL  = "https://supersim.api.korewireless.com"
	DefaultBasePath = "/v1"
)

// created accepts both statuses the service uses for a new resource.
var created = []int{http.StatusOK, http.StatusCreated}

// Client calls the Super SIM API.
type Client struct {
	svc *service.Service
}

// New creates a Client on svc.
func New(svc *service.Service) *Client {
	return &Client{svc: svc}
}

// CreateFleet creates a fleet.
func (c *Client) CreateFleet(ctx context.Context, r CreateFleetRequest) (*Fleet, error) {
	body := service.Fields{}.
		String("UniqueName", r.UniqueName).
		String("NetworkAccessProfile", r.NetworkAccessProfile).
		Bool("DataEnabled", r.DataEnabled).
		Int("DataLimit", r.DataLimit).
		Bool("SmsCommandsEnabled", r.SmsCommandsEnabled).
		String("SmsCommandsUrl", r.SmsCommandsURL).
		String("SmsCommandsMethod", r.SmsCommandsMethod).
		String("IpCommandsUrl", r.IPCommandsURL).
		String("IpCommandsMethod", r.IPCommandsMethod)

	var out Fleet
	if err := c.post(ctx, "/Fleets", body, created, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterSim adds a Super SIM to the account.
func (c *Client) RegisterSim(ctx context.Context, iccid, registrationCode string) (*Sim, error) {
	if iccid == "" {
		return nil, &apierr.ValidationError{Field: "Iccid", Reason: "is required"}
	}
	if registrationCode == "" {
		return nil, &apierr.ValidationError{Field: "RegistrationCode", Reason: "is required"}
	}
	body := service.Fields{"Iccid": iccid, "RegistrationCode": registrationCode}

	var out Sim
	if err := c.post(ctx, "/Sims", body, created, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSim changes a Super SIM.
func (c *Client) UpdateSim(ctx context.Context, sid string, r UpdateSimRequest) (*Sim, error) {
	id, err := service.PathID("sid", sid)
	if err != nil {
		return nil, err
	}
	body := service.Fields{}.
		String("UniqueName", r.UniqueName).
		String("Status", r.Status).
		String("Fleet", r.Fleet).
		String("CallbackUrl", r.CallbackURL).
		String("CallbackMethod", r.CallbackMethod).
		String("AccountSid", r.AccountSID)

	var out Sim
	if err := c.post(ctx, "/Sims"+id, body, []int{http.StatusOK, http.StatusAccepted}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendIPCommand sends a UDP payload to a device port behind a Super SIM.
func (c *Client) SendIPCommand(ctx context.Context, r IPCommandRequest) (*IPCommand, error) {
	switch {
	case r.Sim == "":
		return nil, &apierr.ValidationError{Field: "Sim", Reason: "is required"}
	case r.Payload == "":
		return nil, &apierr.ValidationError{Field: "Payload", Reason: "is required"}
	case r.DevicePort <= 0 || r.DevicePort > 65535:
		return nil, &apierr.ValidationError{Field: "DevicePort", Reason: "must be between 1 and 65535"}
	}
	body := service.Fields{"Sim": r.Sim, "Payload": r.Payload, "DevicePort": r.DevicePort}.
		String("PayloadType", string(r.PayloadType)).
		String("CallbackUrl", r.CallbackURL).
		String("CallbackMethod", r.CallbackMethod)

	var out IPCommand
	if err := c.post(ctx, "/IpCommands", body, created, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendSMSCommand sends an SMS payload to a Super SIM.
func (c *Client) SendSMSCommand(ctx context.Context, sim, payload string) (*SMSCommand, error) {
	if sim == "" {
		return nil, &apierr.ValidationError{Field: "Sim", Reason: "is required"}
	}
	if payload == "" {
		return nil, &apierr.ValidationError{Field: "Payload", Reason: "is required"}
	}

	var out SMSCommand
	if err := c.post(ctx, "/SmsCommands", service.Fields{"Sim": sim, "Payload": payload}, created, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body service.Fields, expected []int, out any) error {
	return c.svc.Do(ctx, request.Descriptor{
		Method:   http.MethodPost,
		Path:     path,
		Body:     body,
		Expected: expected,
	}, out)
}
