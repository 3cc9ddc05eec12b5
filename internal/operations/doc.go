// Package operations manages feature build jobs for the HTTP service: an
// in-memory job store keyed by run id and a manager that executes one build
// at a time through the pipeline entry point. The CLI does not use this
// package; it calls the pipeline directly.
package operations
