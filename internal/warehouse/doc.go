// Package warehouse loads a finished feature table into a SQL warehouse.
// The executor behind the load is a capability interface with one
// implementation per supported driver, selected by configuration at
// startup; the loader itself only ever sees the interface.
//
// The package is never imported by the core pipeline. The CLI invokes it
// after a successful build when a warehouse DSN is configured.
package warehouse
