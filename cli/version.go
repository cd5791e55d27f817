package cli

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Version is dynamically set by the toolchain or overridden by the Makefile.
var Version = "DEV"

// Date is dynamically set at build time in the Makefile.
var Date = "" // YYYY-MM-DD

// GetVersion returns the version printed by `flightdata -V`.
func GetVersion() string {
	version := strings.TrimPrefix(Version, "v")
	if Date != "" {
		version = fmt.Sprintf("%s (%s)", version, Date)
	}
	return version
}

func init() {
	if Version == "DEV" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
}
