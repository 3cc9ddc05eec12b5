// Package contracts holds the data contracts shared across layers: the
// domain value types under domain/ and the HTTP API types under api/.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the application
	Version = "1.0.0"

	// DataFormatVersion is the version of the feature-table schema
	DataFormatVersion = "v1"

	// APIVersion is the version of the HTTP API
	APIVersion = "v1"
)

// VersionInfo describes the running build.
type VersionInfo struct {
	Version           string `json:"version"`
	DataFormatVersion string `json:"data_format_version"`
	APIVersion        string `json:"api_version"`
	GoVersion         string `json:"go_version"`
	Platform          string `json:"platform"`
}

// GetVersionInfo returns the version details of the running binary.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:           Version,
		DataFormatVersion: DataFormatVersion,
		APIVersion:        APIVersion,
		GoVersion:         runtime.Version(),
		Platform:          fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
