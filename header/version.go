package header

import "fmt"

// Version identifies one of the hprof format revisions.
type Version uint8

const (
	V1 Version = iota + 1
	V2
	V3
	V4
)

var versionStrings = [...]string{
	V1: "JAVA PROFILE 1.0",
	V2: "JAVA PROFILE 1.0.1",
	V3: "JAVA PROFILE 1.0.2",
	V4: "JAVA PROFILE 1.0.3",
}

var versionNames = [...]string{
	V1: "JDK1_2_BETA3",
	V2: "JDK1_2_BETA4",
	V3: "JDK_6",
	V4: "ANDROID",
}

// versionsByHeader is built once and never written to afterwards.
var versionsByHeader = func() map[string]Version {
	m := make(map[string]Version, len(versionStrings)-1)
	for v := V1; v <= V4; v++ {
		m[versionStrings[v]] = v
	}
	return m
}()

// LookupVersion resolves a header string to its Version. Matching is exact
// and case-sensitive.
func LookupVersion(s string) (Version, bool) {
	v, ok := versionsByHeader[s]
	return v, ok
}

// KnownVersions returns the header strings of every supported version, oldest
// first.
func KnownVersions() []string {
	known := make([]string, 0, len(versionStrings)-1)
	for v := V1; v <= V4; v++ {
		known = append(known, versionStrings[v])
	}
	return known
}

// Valid reports whether v is one of the known versions.
func (v Version) Valid() bool {
	return v >= V1 && v <= V4
}

// String returns the header string of the version as it appears in a dump.
func (v Version) String() string {
	if !v.Valid() {
		return fmt.Sprintf("Version(%d)", uint8(v))
	}
	return versionStrings[v]
}

// Name returns the label of the runtime that writes this version.
func (v Version) Name() string {
	if !v.Valid() {
		return "UNKNOWN"
	}
	return versionNames[v]
}
