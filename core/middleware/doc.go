// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting the sync and listing endpoints.
//   - rayid: a unique request id (RayID) per request, stored in the context
//     and echoed in the X-Ray-ID response header.
//
// Both are registered globally in the serve command.
package middleware
