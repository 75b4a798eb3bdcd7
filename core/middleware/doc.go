// Package middleware groups the HTTP middleware of the preview server.
//
// # Components
//
//   - auth: API key validation on the X-API-Key header. An empty key disables it.
//   - rayid: tags every request with a ray id (X-Ray-ID), stored in the fiber
//     locals for logger.WithRayID and echoed on the response.
//
// RayID is registered first so that every log line, including auth failures,
// carries the id.
package middleware
