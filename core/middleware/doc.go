// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - Auth: API key validation (X-API-Key) protecting the admin endpoints.
//   - RayID: assigns a request id (RayID), stored in the context locals and echoed
//     in the X-Ray-ID response header for tracing.
//
// Both are registered globally by the start command.
package middleware
