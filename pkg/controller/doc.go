// Package controller contains HTTP middlewares and helper handlers used by the API server.
//
// Provided middlewares:
//   - WithCORS: Adds CORS headers for the allowed origins and handles OPTIONS preflight.
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//   - WithRateLimit: Limits requests per client with a fixed window counter in Redis.
//   - WithMetrics: Records request counts and durations with an OpenTelemetry meter.
//
// Provided helpers:
//   - PprofMux: Returns a ServeMux exposing net/http/pprof handlers.
//   - WriteError: Writes the JSON error body of the API.
package controller
