package wireless

import "github.com/jonwraymond/kore/paging"

// Granularity selects the bucket size of usage records.
type Granularity string

// Usage record granularities.
const (
	GranularityAll    Granularity = "all"
	GranularityDaily  Granularity = "daily"
	GranularityHourly Granularity = "hourly"
)

// SimStatus is the lifecycle state of a SIM.
type SimStatus string

// SIM states.
const (
	SimNew         SimStatus = "new"
	SimReady       SimStatus = "ready"
	SimActive      SimStatus = "active"
	SimSuspended   SimStatus = "suspended"
	SimDeactivated SimStatus = "deactivated"
	SimCanceled    SimStatus = "canceled"
	SimScheduled   SimStatus = "scheduled"
	SimUpdating    SimStatus = "updating"
)

// TimePeriod bounds a usage record.
type TimePeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DataUsage counts data traffic.
type DataUsage struct {
	Download     int64  `json:"download"`
	Upload       int64  `json:"upload"`
	Total        int64  `json:"total"`
	Units        string `json:"units"`
	Billed       int64  `json:"billed"`
	BillingUnits string `json:"billing_units"`
	CountryCode  string `json:"country_code,omitempty"`
}

// DataUsageDetails splits data traffic by roaming zone.
type DataUsageDetails struct {
	DataUsage
	Home                 *DataUsage  `json:"home,omitempty"`
	NationalRoaming      *DataUsage  `json:"national_roaming,omitempty"`
	InternationalRoaming []DataUsage `json:"international_roaming,omitempty"`
}

// CommandsUsage counts machine-to-machine commands.
type CommandsUsage struct {
	FromSim      int64  `json:"from_sim"`
	ToSim        int64  `json:"to_sim"`
	Total        int64  `json:"total"`
	Billed       int64  `json:"billed"`
	BillingUnits string `json:"billing_units"`
	CountryCode  string `json:"country_code,omitempty"`
}

// CommandsUsageDetails splits command traffic by roaming zone.
type CommandsUsageDetails struct {
	CommandsUsage
	Home                 *CommandsUsage  `json:"home,omitempty"`
	NationalRoaming      *CommandsUsage  `json:"national_roaming,omitempty"`
	InternationalRoaming []CommandsUsage `json:"international_roaming,omitempty"`
}

// UsageRecord is the usage of an account or SIM over one period.
type UsageRecord struct {
	Period     TimePeriod           `json:"period"`
	AccountSID string               `json:"account_sid"`
	SimSID     string               `json:"sim_sid,omitempty"`
	Commands   CommandsUsageDetails `json:"commands"`
	Data       DataUsageDetails     `json:"data"`
}

// UsageList is a page of usage records.
type UsageList struct {
	UsageRecords []UsageRecord `json:"usage_records"`
	Meta         paging.Meta   `json:"meta"`
}

// Page implements service.Lister.
func (l *UsageList) Page() paging.Page[UsageRecord] {
	return paging.Page[UsageRecord]{Items: l.UsageRecords, Next: l.Meta.NextPageURL}
}

// RatePlan describes the capabilities granted to SIMs.
type RatePlan struct {
	SID                           string   `json:"sid"`
	UniqueName                    string   `json:"unique_name,omitempty"`
	AccountSID                    string   `json:"account_sid,omitempty"`
	FriendlyName                  string   `json:"friendly_name,omitempty"`
	DataEnabled                   bool     `json:"data_enabled"`
	DataMetering                  string   `json:"data_metering,omitempty"`
	DataLimit                     int      `json:"data_limit,omitempty"`
	DataLimitStrategy             string   `json:"data_limit_strategy,omitempty"`
	MessagingEnabled              bool     `json:"messaging_enabled"`
	VoiceEnabled                  bool     `json:"voice_enabled"`
	NationalRoamingEnabled        bool     `json:"national_roaming_enabled"`
	NationalRoamingDataLimit      int      `json:"national_roaming_data_limit,omitempty"`
	InternationalRoaming          []string `json:"international_roaming,omitempty"`
	InternationalRoamingDataLimit int      `json:"international_roaming_data_limit,omitempty"`
	UsageNotificationURL          string   `json:"usage_notification_url,omitempty"`
	UsageNotificationMethod       string   `json:"usage_notification_method,omitempty"`
	DateCreated                   string   `json:"date_created,omitempty"`
	DateUpdated                   string   `json:"date_updated,omitempty"`
	URL                           string   `json:"url,omitempty"`
}

// RatePlanList is a page of rate plans.
type RatePlanList struct {
	RatePlans []RatePlan  `json:"rate_plans"`
	Meta      paging.Meta `json:"meta"`
}

// Page implements service.Lister.
func (l *RatePlanList) Page() paging.Page[RatePlan] {
	return paging.Page[RatePlan]{Items: l.RatePlans, Next: l.Meta.NextPageURL}
}

// RatePlanRequest creates or updates a rate plan. Nil and empty fields are
// not sent.
type RatePlanRequest struct {
	UniqueName                    string
	FriendlyName                  string
	DataEnabled                   *bool
	DataLimit                     *int
	DataMetering                  string
	MessagingEnabled              *bool
	VoiceEnabled                  *bool
	NationalRoamingEnabled        *bool
	NationalRoamingDataLimit      *int
	InternationalRoaming          []string
	InternationalRoamingDataLimit *int
}

// SimLinks points at a SIM's related resources.
type SimLinks struct {
	RatePlan     string `json:"rate_plan,omitempty"`
	UsageRecords string `json:"usage_records,omitempty"`
	DataSessions string `json:"data_sessions,omitempty"`
}

// Sim is a wireless SIM.
type Sim struct {
	SID                    string    `json:"sid"`
	UniqueName             string    `json:"unique_name,omitempty"`
	AccountSID             string    `json:"account_sid,omitempty"`
	FriendlyName           string    `json:"friendly_name,omitempty"`
	Status                 SimStatus `json:"status,omitempty"`
	RatePlanSID            string    `json:"rate_plan_sid,omitempty"`
	ICCID                  string    `json:"iccid,omitempty"`
	EID                    string    `json:"eid,omitempty"`
	CommandsCallbackURL    string    `json:"commands_callback_url,omitempty"`
	CommandsCallbackMethod string    `json:"commands_callback_method,omitempty"`
	ResetStatus            string    `json:"reset_status,omitempty"`
	DateCreated            string    `json:"date_created,omitempty"`
	DateUpdated            string    `json:"date_updated,omitempty"`
	Links                  SimLinks  `json:"links"`
	URL                    string    `json:"url,omitempty"`
}

// SimList is a page of SIMs.
type SimList struct {
	Sims []Sim       `json:"sims"`
	Meta paging.Meta `json:"meta"`
}

// Page implements service.Lister.
func (l *SimList) Page() paging.Page[Sim] {
	return paging.Page[Sim]{Items: l.Sims, Next: l.Meta.NextPageURL}
}

// SimFilter narrows a SIM listing.
type SimFilter struct {
	Status              SimStatus
	ICCID               string
	RatePlan            string
	EID                 string
	SimRegistrationCode string
	paging.Params
}

// UpdateSimRequest changes a SIM. Empty fields are not sent.
type UpdateSimRequest struct {
	UniqueName             string
	FriendlyName           string
	Status                 SimStatus
	RatePlan               string
	CallbackMethod         string
	CallbackURL            string
	CommandsCallbackMethod string
	CommandsCallbackURL    string
	SmsFallbackMethod      string
	SmsFallbackURL         string
	SmsMethod              string
	SmsURL                 string
	VoiceFallbackMethod    string
	VoiceFallbackURL       string
	VoiceMethod            string
	VoiceURL               string
	ResetStatus            string
	AccountSID             string
}

// Command is a machine-to-machine message to or from a SIM.
type Command struct {
	SID                      string `json:"sid"`
	AccountSID               string `json:"account_sid,omitempty"`
	SimSID                   string `json:"sim_sid,omitempty"`
	Command                  string `json:"command,omitempty"`
	CommandMode              string `json:"command_mode,omitempty"`
	Transport                string `json:"transport,omitempty"`
	DeliveryReceiptRequested bool   `json:"delivery_receipt_requested"`
	Status                   string `json:"status,omitempty"`
	Direction                string `json:"direction,omitempty"`
	DateCreated              string `json:"date_created,omitempty"`
	DateUpdated              string `json:"date_updated,omitempty"`
	URL                      string `json:"url,omitempty"`
}

// CommandList is a page of commands.
type CommandList struct {
	Commands []Command   `json:"commands"`
	Meta     paging.Meta `json:"meta"`
}

// Page implements service.Lister.
func (l *CommandList) Page() paging.Page[Command] {
	return paging.Page[Command]{Items: l.Commands, Next: l.Meta.NextPageURL}
}

// CommandFilter narrows a command listing.
type CommandFilter struct {
	Sim       string
	Status    string
	Direction string
	Transport string
	paging.Params
}

// CreateCommandRequest sends a command to a SIM. Command is required.
type CreateCommandRequest struct {
	Command                  string
	Sim                      string
	CallbackMethod           string
	CallbackURL              string
	CommandMode              string
	IncludeSID               string
	DeliveryReceiptRequested *bool
}

// CellLocation is an estimated cell position.
type CellLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DataSession is one data connection of a SIM.
type DataSession struct {
	SID                  string        `json:"sid"`
	SimSID               string        `json:"sim_sid,omitempty"`
	AccountSID           string        `json:"account_sid,omitempty"`
	RadioLink            string        `json:"radio_link,omitempty"`
	OperatorMCC          string        `json:"operator_mcc,omitempty"`
	OperatorMNC          string        `json:"operator_mnc,omitempty"`
	OperatorCountry      string        `json:"operator_country,omitempty"`
	OperatorName         string        `json:"operator_name,omitempty"`
	CellID               string        `json:"cell_id,omitempty"`
	CellLocationEstimate *CellLocation `json:"cell_location_estimate,omitempty"`
	PacketsUploaded      int64         `json:"packets_uploaded"`
	PacketsDownloaded    int64         `json:"packets_downloaded"`
	LastUpdated          string        `json:"last_updated,omitempty"`
	Start                string        `json:"start,omitempty"`
	End                  string        `json:"end,omitempty"`
	IMEI                 string        `json:"imei,omitempty"`
}

// DataSessionList is a page of data sessions.
type DataSessionList struct {
	DataSessions []DataSession `json:"data_sessions"`
	Meta         paging.Meta   `json:"meta"`
}

// Page implements service.Lister.
func (l *DataSessionList) Page() paging.Page[DataSession] {
	return paging.Page[DataSession]{Items: l.DataSessions, Next: l.Meta.NextPageURL}
}

// UsageFilter narrows a usage record listing.
type UsageFilter struct {
	Start       string
	End         string
	Granularity Granularity
	paging.Params
}
