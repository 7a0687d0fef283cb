// Package secret resolves credential values from configuration.
//
// A value may be:
//   - A literal: used as is after environment expansion.
//   - An environment reference: ${KORE_CLIENT_SECRET} (see ExpandEnvStrict).
//   - A secret reference: secretref:<provider>:<ref>, resolved by a
//     registered Provider.
//
// Two providers ship with the package:
//   - env:  secretref:env:KORE_CLIENT_SECRET
//   - file: secretref:file:/run/secrets/kore_client_secret
package secret
