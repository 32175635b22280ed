// Package notify reports a finished release to CI and to the pull request.
package notify

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoOutputFile indicates no CI output file is configured.
var ErrNoOutputFile = errors.New("GITHUB_OUTPUT is not set")

// WriteOutput appends a key=value line to the CI step output file at path.
func WriteOutput(path, key, value string) error {
	if path == "" {
		return ErrNoOutputFile
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("output %s: value must be a single line", key)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// Comment renders the pull request comment announcing a release.
func Comment(name, version, url string) string {
	return fmt.Sprintf("✅ **[%s %s release](%s)** created!", name, version, url)
}

// Summary renders the console line announcing a release.
func Summary(name, version string) string {
	return fmt.Sprintf("%s %s release created!", name, version)
}
