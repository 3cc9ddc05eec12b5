// Package app wires the build service together: configuration, logging,
// OpenTelemetry, the operations manager and the HTTP server, plus graceful
// shutdown. cmd/featuresd is a thin shell around this package.
//
// # Initialization Flow
//
//	1. Load configuration (file + environment)
//	2. Initialize logging and observability
//	3. Create the operations manager around the pipeline
//	4. Assemble the router and HTTP server
//	5. Serve until the context is cancelled, then drain
package app
