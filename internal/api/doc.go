// Package api defines the HTTP/JSON wire contract of the string analyzer
// and a client that speaks it.
//
// # Overview
//
// The server (package server) and the command-line client (cmd/stranalyzer)
// share the request and response types declared here, so both sides agree
// on field names and shapes without duplicating struct definitions.
//
// # Endpoints
//
//	GET    /                                   HealthResponse
//	GET    /health                             HealthResponse
//	POST   /strings                            CreateRequest -> storage.Record (201)
//	GET    /strings                            ListResponse
//	GET    /strings/filter-by-natural-language QueryResponse
//	GET    /strings/{value}                    storage.Record
//	DELETE /strings/{value}                    204, no body
//
// Every failure carries an ErrorResponse body: {"error": "..."}, plus a
// "conflicts" field when a natural-language query produced an impossible
// length range.
//
// # Client
//
// Client wraps net/http with JSON encoding and error decoding. Every method
// takes a context.Context for cancellation and deadlines. A response whose
// status is not the one the endpoint documents is returned as *Error:
//
//	c := api.NewClient("http://127.0.0.1:8000")
//	rec, err := c.Create(ctx, "racecar")
//	if api.StatusCode(err) == http.StatusConflict {
//	    // already stored
//	}
//
// Values are path-escaped when placed in /strings/{value}. A value that
// contains "/" cannot be addressed through that route.
package api
