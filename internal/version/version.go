// Package version holds build metadata, overridable via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.3.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info is the build metadata with blanks resolved.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

// Current returns the trimmed build metadata. An empty Version reads "dev".
func Current() Info {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	return Info{
		Version:   v,
		GitCommit: strings.TrimSpace(GitCommit),
		BuildDate: strings.TrimSpace(BuildDate),
	}
}

// Colored paints major, minor and patch in separate colours. Anything that
// is not MAJOR.MINOR.PATCH[-suffix] is returned unchanged.
func Colored(v string) string {
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return v
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}
