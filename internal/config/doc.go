// Package config provides centralized configuration management for the
// callcast feature pipeline. It handles loading configuration from multiple
// sources, validation, and a type-safe API for accessing configuration
// values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CALLCAST_* for namespacing:
//
//	CALLCAST_HISTORIC_PATH=data/historic
//	CALLCAST_OUTPUT_DIR=data/output
//	CALLCAST_FEATURES_FREQ=5m
//	CALLCAST_FEATURES_LAG_LIST=1,2,3,6,12
//	CALLCAST_LOGGING_LEVEL=debug
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The returned Config is treated as immutable; components receive it (or a
// sub-struct) at construction time and never mutate it.
package config
