// Package env reads ad-hoc environment variables that live outside the
// envconfig structs, such as the log format toggle.
package env

import "os"

// Prefix namespaces every variable this package reads.
const Prefix = "PARCELDROP_"

// Get returns PARCELDROP_<key> when set, then the bare key for local
// tooling, then the fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(Prefix + key); val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
