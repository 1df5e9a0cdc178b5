// Package server provides HTTP routing, middleware, and the gateway's handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Bearer Authentication
//
// [BearerAuth] gates protected routes on an opaque bearer token resolved by the
// user store. The token is the last whitespace-separated field of the
// Authorization header. Every failure collapses into one uniform
// 401 "Invalid Login" response so callers cannot probe which check failed;
// on success the resolved [models.User] and their stored access token ride the
// request context into the handler.
//
// # Handlers
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib
// handler interface and adds Routes, allowing handlers to register multiple
// routes and encapsulate route definitions within the implementation.
//
//   - [RootHandler] : landing route and JSON 404 catch-all
//   - [AuthHandler] : GET /login redirect, POST /auth code exchange + profile
//     merge, POST /refresh token refresh
//   - [MusicHandler] : POST /tracks, /playlist, /profile-artists pass-throughs,
//     each authenticated by an access token in the request body
//   - [ProfileHandler] : GET /me behind [BearerAuth], served by the shared
//     client-credentials catalog client
//
// # Error Policy
//
// Upstream failures surface as 500 with the raw error detail attached; there
// are no retries and no partial-success responses. A code exchange that
// succeeds but whose profile fetch fails reports total failure and persists
// nothing.
package server
