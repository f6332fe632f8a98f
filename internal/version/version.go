package version

// Version is the service current released version, set at build time with
// -ldflags "-X github.com/hrygo/parsedate/internal/version.Version=...".
var Version = "0.1.0"

// DevVersion is the service current development version.
var DevVersion = "0.1.0-dev"

func GetCurrentVersion(mode string) string {
	if mode == "dev" {
		return DevVersion
	}
	return Version
}
