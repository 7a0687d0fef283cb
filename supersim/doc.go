// Package supersim is the client for the KORE Super SIM API: fleets, SIM
// registration and IP and SMS commands.
package supersim
