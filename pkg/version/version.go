package version

// Version represents the current version of openshelf
const Version = "0.3.1"

// BuildVersion returns the version string for display
func BuildVersion() string {
	return "openshelf version " + Version
}

// APIVersion returns just the version number for API responses
func APIVersion() string {
	return Version
}
