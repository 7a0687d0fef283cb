// Package clientapi is the client for the KORE client API.
package clientapi
