package snapshot

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// FormatVersion is written into every snapshot's metadata.
const FormatVersion = "v1.0.0"

// IsCompatibleVersion checks if a stored snapshot can be read by this build.
// Compatibility rules:
// - Major version must match exactly.
// - Minor and patch versions can differ.
func IsCompatibleVersion(storedVersion, currentVersion string) (bool, error) {
	if !semver.IsValid(storedVersion) {
		return false, fmt.Errorf("invalid snapshot version: %q", storedVersion)
	}
	if !semver.IsValid(currentVersion) {
		return false, fmt.Errorf("invalid current version: %q", currentVersion)
	}

	return semver.Major(storedVersion) == semver.Major(currentVersion), nil
}

// GetCompatibilityError returns a user-friendly message for incompatible versions.
func GetCompatibilityError(storedVersion, currentVersion string) string {
	return fmt.Sprintf(
		"snapshot version %s cannot be read by format %s. Required version: %s.x.x",
		storedVersion, currentVersion, semver.Major(currentVersion),
	)
}
