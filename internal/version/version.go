// Package version holds build information for pixtweak. Both variables are
// set with -ldflags "-X .../internal/version.Version=... -X ...Commit=...".
package version

var (
	// Version is the release name, "development" for local builds.
	Version = "development"
	// Commit is the short git hash, "unknown" when not stamped.
	Commit = "unknown"
)

// String returns Version, followed by +Commit when the commit is known.
func String() string {
	if Commit == "unknown" || Commit == "" {
		return Version
	}
	return Version + "+" + Commit
}

// Line returns the line printed by the version command.
func Line() string {
	return "pixtweak version " + String()
}
