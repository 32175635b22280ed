package provider

// Release describes a release to publish.
type Release struct {
	Tag   string
	Title string
	Notes string
	// AssetPath is a file uploaded with the release; empty for none.
	AssetPath string
}

// ReleaseTitle returns the release title for version.
func ReleaseTitle(version string) string {
	return "Version " + version
}
