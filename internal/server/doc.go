// Package server provides HTTP routing, middleware, and server lifecycle for the relay.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Middleware
//
// Three middlewares ship with the package: [RequestID] (UUID per request),
// [RequestLogger] (one structured record per request) and [Recover]
// (panics become a 500 response; the listener never dies with a request).
//
// Observability and the HTTP control flow stay separate: middleware writes the
// log record, handlers decide the status and body.
//
// # Lifecycle
//
// [Server] wraps [http.Server]; [Server.Run] blocks until its context is
// cancelled and then drains in-flight requests.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
