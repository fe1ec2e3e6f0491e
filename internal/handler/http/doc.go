// Package http is the REST transport of the claim vault server.
//
// Reads are anonymous. Every mutating route requires a signed request token
// (see utils.SignRequestToken) and is funneled through service.Processor, so
// validation, metrics and error kinds are the same as for POST /api/requests.
package http
