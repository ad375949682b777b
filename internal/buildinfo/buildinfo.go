// Package buildinfo holds build-time metadata injected via -ldflags.
package buildinfo

// Version is the semantic version or tag for this build.
// Inject via: -X github.com/mee-advisor/mee-assistant-go/internal/buildinfo.Version=...
var Version = ""

// Commit is the git commit SHA for this build.
// Inject via: -X github.com/mee-advisor/mee-assistant-go/internal/buildinfo.Commit=...
var Commit = ""

// Release returns the identifier reported to error tracking:
// "version@commit" when both are set, whichever exists otherwise.
func Release() string {
	switch {
	case Version != "" && Commit != "":
		return Version + "@" + Commit
	case Version != "":
		return Version
	}
	return Commit
}
