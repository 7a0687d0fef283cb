package supersim

// Fleet groups Super SIMs that share capabilities.
type Fleet struct {
	SID                     string `json:"sid"`
	AccountSID              string `json:"account_sid,omitempty"`
	UniqueName              string `json:"unique_name,omitempty"`
	DataEnabled             bool   `json:"data_enabled"`
	DataLimit               int    `json:"data_limit,omitempty"`
	SmsCommandsEnabled      bool   `json:"sms_commands_enabled"`
	SmsCommandsURL          string `json:"sms_commands_url,omitempty"`
	SmsCommandsMethod       string `json:"sms_commands_method,omitempty"`
	IPCommandsURL           string `json:"ip_commands_url,omitempty"`
	IPCommandsMethod        string `json:"ip_commands_method,omitempty"`
	NetworkAccessProfileSID string `json:"network_access_profile_sid,omitempty"`
	DateCreated             string `json:"date_created,omitempty"`
	DateUpdated             string `json:"date_updated,omitempty"`
	URL                     string `json:"url,omitempty"`
}

// CreateFleetRequest creates a fleet. Nil and empty fields are not sent.
type CreateFleetRequest struct {
	UniqueName           string
	NetworkAccessProfile string
	DataEnabled          *bool
	DataLimit            *int
	SmsCommandsEnabled   *bool
	SmsCommandsURL       string
	SmsCommandsMethod    string
	IPCommandsURL        string
	IPCommandsMethod     string
}

// SimLinks points at a Super SIM's related resources.
type SimLinks struct {
	BillingPeriods string `json:"billing_periods,omitempty"`
	SimIPAddresses string `json:"sim_ip_addresses,omitempty"`
}

// Sim is a Super SIM.
type Sim struct {
	SID         string   `json:"sid"`
	AccountSID  string   `json:"account_sid,omitempty"`
	UniqueName  string   `json:"unique_name,omitempty"`
	Status      string   `json:"status,omitempty"`
	FleetSID    *string  `json:"fleet_sid"`
	ICCID       string   `json:"iccid,omitempty"`
	DateCreated string   `json:"date_created,omitempty"`
	DateUpdated string   `json:"date_updated,omitempty"`
	URL         string   `json:"url,omitempty"`
	Links       SimLinks `json:"links"`
}

// UpdateSimRequest changes a Super SIM. Empty fields are not sent.
type UpdateSimRequest struct {
	UniqueName     string
	Status         string
	Fleet          string
	CallbackURL    string
	CallbackMethod string
	AccountSID     string
}

// PayloadType is the encoding of an IP command payload.
type PayloadType string

// IP command payload types.
const (
	PayloadText   PayloadType = "text"
	PayloadBinary PayloadType = "binary"
)

// IPCommandRequest sends an IP command. Sim, Payload and DevicePort are
// required.
type IPCommandRequest struct {
	Sim            string
	Payload        string
	DevicePort     int
	PayloadType    PayloadType
	CallbackURL    string
	CallbackMethod string
}

// IPCommand is a UDP message exchanged with a Super SIM.
type IPCommand struct {
	SID         string      `json:"sid"`
	AccountSID  string      `json:"account_sid,omitempty"`
	SimSID      string      `json:"sim_sid,omitempty"`
	Status      string      `json:"status,omitempty"`
	Direction   string      `json:"direction,omitempty"`
	Payload     string      `json:"payload,omitempty"`
	PayloadType PayloadType `json:"payload_type,omitempty"`
	DateCreated string      `json:"date_created,omitempty"`
	DateUpdated string      `json:"date_updated,omitempty"`
	URL         string      `json:"url,omitempty"`
}

// SMSCommand is an SMS exchanged with a Super SIM.
type SMSCommand struct {
	SID         string `json:"sid"`
	AccountSID  string `json:"account_sid,omitempty"`
	SimSID      string `json:"sim_sid,omitempty"`
	Status      string `json:"status,omitempty"`
	Direction   string `json:"direction,omitempty"`
	Payload     string `json:"payload,omitempty"`
	DateCreated string `json:"date_created,omitempty"`
	DateUpdated string `json:"date_updated,omitempty"`
	URL         string `json:"url,omitempty"`
}
