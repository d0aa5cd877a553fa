// Package version carries build metadata for the parens CLI.
package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func Current() Info {
	return Info{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
}

// String renders "parens <version> (<commit>, <date>)"; absent parts are skipped.
func (i Info) String() string {
	return i.render(false)
}

// Colored is String with major, minor and patch painted separately when enabled.
func (i Info) Colored(enabled bool) string {
	return i.render(enabled)
}

func (i Info) render(colored bool) string {
	var b strings.Builder
	b.WriteString("parens ")
	b.WriteString(paintVersion(i.Version, colored))

	var meta []string
	if i.GitCommit != "" {
		commit := i.GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		meta = append(meta, commit)
	}
	if i.BuildDate != "" {
		meta = append(meta, i.BuildDate)
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(meta, ", "))
	}
	return b.String()
}

var partColors = []color.Attribute{color.FgYellow, color.FgGreen, color.FgBlue}

func paintVersion(v string, enabled bool) string {
	if !enabled {
		return v
	}
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	for idx, part := range parts {
		c := color.New(partColors[idx%len(partColors)], color.Bold)
		c.EnableColor()
		parts[idx] = c.Sprint(part)
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}
