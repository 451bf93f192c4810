package tool

import (
	"regexp"
	"strings"
)

// VersionNotFound is returned by ExtractVersion when no line of the output
// mentions a version. Callers treat it as a distinguishable "not found"
// signal, not an error.
const VersionNotFound = "[Version line not found]"

var versionPattern = regexp.MustCompile(`Version\s+([A-Za-z0-9.()]+)`)

// ExtractVersion pulls the software version out of "show version" output.
// For the first line containing "Version" it returns the captured token, or
// the trimmed whole line when the token does not parse. Without any such
// line it returns VersionNotFound.
func ExtractVersion(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, "Version") {
			continue
		}
		if m := versionPattern.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		return strings.TrimSpace(line)
	}
	return VersionNotFound
}
