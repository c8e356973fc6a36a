// Package server implements the string analyzer HTTP API on gin.
//
// # Overview
//
// A Server owns a storage.Store and exposes it as JSON over HTTP:
//
//	GET    /, /health                          liveness
//	POST   /strings                            analyze and store a string
//	GET    /strings                            list, with structured filters
//	GET    /strings/filter-by-natural-language list, with a free-text query
//	GET    /strings/{value}                    fetch one record
//	DELETE /strings/{value}                    remove one record
//	GET    /metrics                            Prometheus exposition (optional)
//
// Other methods on these paths answer 405 and unknown paths answer 404, both
// with a JSON {"error": ...} body.
//
// # Middleware
//
// Every request passes through, in order: request id assignment
// (X-Request-ID), structured access logging with request metrics, panic
// recovery, OpenTelemetry request spans (otelgin) and the closed-server
// check.
//
// # Error Handling
//
// Handlers never write error bodies themselves. They pass either a domain
// sentinel (storage.ErrNotFound, filter.ErrInvalidParameter, ...) or an
// *Error to respondError, which maps it to a Kind, a status and the exact
// client-facing message.
//
// # Lifecycle
//
//	srv := server.New(storage.NewMemoryStore(), server.WithLogger(logger))
//	httpServer := &http.Server{Addr: ":8000", Handler: srv.Handler()}
//	...
//	httpServer.Shutdown(ctx)
//	srv.Close()
//
// After Close every request receives 503.
package server
