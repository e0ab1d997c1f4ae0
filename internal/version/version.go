// Package version is the single source of truth for the propsort version.
package version

// Overridable at build time:
// go build -ldflags "-X propsort/internal/version.Version=1.0.0 -X propsort/internal/version.Commit=abc123"
var (
	// Version is the semantic version.
	Version = "0.3.0"

	// Commit is the git commit hash (set at build time).
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time).
	BuildDate = "unknown"
)

// Info returns the short version string.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information.
func Full() string {
	return "propsort version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
