// Package version reports the module's build version, read from Go's
// embedded build info the same way wazero's CLI resolves its own version
// for "bfjit version" and downstream consumers (internal/version).
package version

import "runtime/debug"

const devVersion = "dev"

// Get returns the module version embedded at build time, or "dev" when
// running from source without module version info (e.g. via `go run`).
func Get() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return devVersion
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	return devVersion
}
