package wireless

import (
	"net/url"

	"github.com/jonwraymond/kore/internal/service"
	"github.com/jonwraymond/kore/paging"
)

// PageParams selects one page of a list.
type PageParams = paging.Params

func (f UsageFilter) query() (url.Values, error) {
	if err := f.Params.Validate(); err != nil {
		return nil, err
	}
	q := service.Query{}.
		Set("Start", f.Start).
		Set("End", f.End).
		Set("Granularity", string(f.Granularity))
	return f.Params.Apply(q.Values()), nil
}

func (f SimFilter) query() (url.Values, error) {
	if err := f.Params.Validate(); err != nil {
		return nil, err
	}
	q := service.Query{}.
		Set("Status", string(f.Status)).
		Set("Iccid", f.ICCID).
		Set("RatePlan", f.RatePlan).
		Set("EId", f.EID).
		Set("SimRegistrationCode", f.SimRegistrationCode)
	return f.Params.Apply(q.Values()), nil
}

func (f CommandFilter) query() (url.Values, error) {
	if err := f.Params.Validate(); err != nil {
		return nil, err
	}
	q := service.Query{}.
		Set("Sim", f.Sim).
		Set("Status", f.Status).
		Set("Direction", f.Direction).
		Set("Transport", f.Transport)
	return f.Params.Apply(q.Values()), nil
}

func (r RatePlanRequest) fields() map[string]any {
	return service.Fields{}.
		String("UniqueName", r.UniqueName).
		String("FriendlyName", r.FriendlyName).
		Bool("DataEnabled", r.DataEnabled).
		Int("DataLimit", r.DataLimit).
		String("DataMetering", r.DataMetering).
		Bool("MessagingEnabled", r.MessagingEnabled).
		Bool("VoiceEnabled", r.VoiceEnabled).
		Bool("NationalRoamingEnabled", r.NationalRoamingEnabled).
		Int("NationalRoamingDataLimit", r.NationalRoamingDataLimit).
		Strings("InternationalRoaming", r.InternationalRoaming).
		Int("InternationalRoamingDataLimit", r.InternationalRoamingDataLimit)
}

func (r UpdateSimRequest) fields() map[string]any {
	return service.Fields{}.
		String("UniqueName", r.UniqueName).
		String("FriendlyName", r.FriendlyName).
		String("Status", string(r.Status)).
		String("RatePlan", r.RatePlan).
		String("CallbackMethod", r.CallbackMethod).
		String("CallbackUrl", r.CallbackURL).
		String("CommandsCallbackMethod", r.CommandsCallbackMethod).
		String("CommandsCallbackUrl", r.CommandsCallbackURL).
		String("SmsFallbackMethod", r.SmsFallbackMethod).
		String("SmsFallbackUrl", r.SmsFallbackURL).
		String("SmsMethod", r.SmsMethod).
		String("SmsUrl", r.SmsURL).
		String("VoiceFallbackMethod", r.VoiceFallbackMethod).
		String("VoiceFallbackUrl", r.VoiceFallbackURL).
		String("VoiceMethod", r.VoiceMethod).
		String("VoiceUrl", r.VoiceURL).
		String("ResetStatus", r.ResetStatus).
		String("AccountSid", r.AccountSID)
}

func (r CreateCommandRequest) fields() map[string]any {
	return service.Fields{}.
		String("Command", r.Command).
		String("Sim", r.Sim).
		String("CallbackMethod", r.CallbackMethod).
		String("CallbackUrl", r.CallbackURL).
		String("CommandMode", r.CommandMode).
		String("IncludeSid", r.IncludeSID).
		Bool("DeliveryReceiptRequested", r.DeliveryReceiptRequested)
}
