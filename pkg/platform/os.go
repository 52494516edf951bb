// SPDX-License-Identifier: MPL-2.0

package platform

import "runtime"

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Host returns the packaging target matching the running operating system and
// architecture. Unknown systems fall back to Linux64.
func Host() Platform {
	return hostFrom(runtime.GOOS, runtime.GOARCH)
}

func hostFrom(goos, goarch string) Platform {
	is32 := goarch == "386" || goarch == "arm"
	switch goos {
	case Windows:
		if is32 {
			return Windows32
		}
		return Windows64
	case Darwin:
		return MacOS
	default:
		if is32 {
			return Linux32
		}
		return Linux64
	}
}
