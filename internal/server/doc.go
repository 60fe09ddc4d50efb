// Package server provides HTTP routing, middleware, and access-token capture for the web interface.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /path") internally.
//
// # Middleware
//
// [RequestID] tags every request with an id, [Logging] records method, path, status and duration,
// [RateLimit] sheds load with 429 once a token bucket is empty and [Recover] turns panics into 500s.
//
// # Token Capture
//
// [CaptureHandler] accepts the fragment of an implicit-grant redirect, extracts the access token
// and stores it. The token is never sent anywhere else. The first capture is also delivered on
// [CaptureHandler.Result] so a CLI flow can wait for it.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
