// Package metadata reads the version and display name from a plugin's
// main source file header.
package metadata

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrVersionNotFound indicates the file has no "Version:" header.
	ErrVersionNotFound = errors.New("version header not found")
	// ErrNameNotFound indicates the file has no "Plugin Name:" header.
	ErrNameNotFound = errors.New("plugin name header not found")
)

var (
	versionPattern = regexp.MustCompile(`Version: (.*)`)
	namePattern    = regexp.MustCompile(`Plugin Name: (.*)`)
)

// Info is the metadata extracted from the main file.
type Info struct {
	Version     string
	DisplayName string
}

// Read reads path and extracts its metadata.
func Read(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("reading plugin file: %w", err)
	}
	info, err := Extract(string(data))
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}

// Extract pulls the version and display name out of content. Both must be
// present.
func Extract(content string) (Info, error) {
	version, ok := firstMatch(versionPattern, content)
	if !ok {
		return Info{}, ErrVersionNotFound
	}
	name, ok := firstMatch(namePattern, content)
	if !ok {
		return Info{}, ErrNameNotFound
	}
	return Info{Version: version, DisplayName: name}, nil
}

func firstMatch(re *regexp.Regexp, content string) (string, bool) {
	m := re.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	v := strings.TrimRight(m[1], " \t\r")
	return v, v != ""
}

// CheckVersion reports whether v parses as a semantic version.
func CheckVersion(v string) error {
	if _, err := semver.StrictNewVersion(v); err != nil {
		return fmt.Errorf("version %q is not semver: %w", v, err)
	}
	return nil
}
