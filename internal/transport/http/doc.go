// Package http provides the HTTP handlers of the build service: the build
// trigger, status and listing endpoints, the latest run manifest, liveness,
// and the Prometheus metrics handler. Handlers depend on narrow interfaces
// so tests can substitute the operations layer.
package http
