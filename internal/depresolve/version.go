package depresolve

import "regexp"

// UnknownVersion is the sentinel returned when no version could be
// extracted. It is non-authoritative: a present library with an unparsable
// version string is still found.
const UnknownVersion = "0.0.0"

var versionPattern = regexp.MustCompile(`\d+(?:\.\d+)+`)

// ExtractVersion pulls a dotted version number out of raw vendor macro text,
// e.g. `"OpenBLAS 0.3.21"` yields "0.3.21". It never fails; when no match is
// found it returns UnknownVersion.
func ExtractVersion(raw string) string {
	if m := versionPattern.FindString(raw); m != "" {
		return m
	}
	return UnknownVersion
}
