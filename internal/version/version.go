package version

// Version is the kirlent release, set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/kirlent/internal/version.Version=v0.4.0".
var Version = "unknown"

// Build metadata, also set through ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Generator is the value of the generator meta tag in rendered documents.
func Generator() string {
	if Version == "unknown" {
		return "kirlent"
	}
	return "kirlent " + Version
}
