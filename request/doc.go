// Package request turns a resource call description into one authenticated
// HTTPS exchange with the KORE services and classifies the outcome.
//
// A Pipeline runs every call through the same steps:
//
//  1. Validate the outbound body and query keys (ValidateBody).
//  2. Obtain a bearer token from the TokenSource and build the URL.
//  3. Encode the body: form encoding with bracket flattening by default,
//     JSON when Descriptor.JSON is set.
//  4. Run request interceptors (HTTPSOnly, SanitizeHeaders by default).
//  5. Send under the configured timeout.
//  6. Run response interceptors (RateLimitDetector, JSONContentType).
//  7. Classify non-2xx statuses as *apierr.APIError; a 401 invalidates the
//     cached token.
//  8. Parse the body as JSON and check it against the expected statuses.
//
// Every failure is one of the typed errors in package apierr, so callers and
// the retry policy can classify it with errors.As.
//
// # Usage
//
//	p, err := request.NewPipeline(request.PipelineConfig{
//	    API:         "wireless",
//	    BaseURL:     "https://programmable-wireless.api.korewireless.com",
//	    BasePath:    "/v1",
//	    TokenSource: authority,
//	})
//	if err != nil {
//	    return err
//	}
//
//	var sims SimList
//	err = p.SendInto(ctx, request.Descriptor{Method: http.MethodGet, Path: "/Sims"}, &sims)
package request
