// Package version exposes the build version embedded at compile time.
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var raw string

// Get returns the current version string.
func Get() string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "dev"
	}
	return v
}
