// Package version reports build information for the derive binary and decides
// whether code generated by another release can be checked by this one.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/derive/errors"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Dev is the version reported by untagged builds.
const Dev = "dev"

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash" yaml:"commit_hash"`
	BuildTime  string `json:"build_time" yaml:"build_time"`
	Version    string `json:"version" yaml:"version"`
	GoVersion  string `json:"go_version" yaml:"go_version"`
	Platform   string `json:"platform" yaml:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	if i.Version != Dev {
		return fmt.Sprintf("derive %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
	}
	return fmt.Sprintf("derive dev (commit %s, built %s)", i.CommitHash, i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// Compatible reports whether code generated by release generated can be
// compared against output of release current. Releases are compatible when
// they share a major version (or, before 1.0, a minor version). Dev builds
// are compatible with everything.
func Compatible(current, generated string) (bool, error) {
	if current == Dev || generated == Dev {
		return true, nil
	}
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false, errors.Wrapf(err, "parse version %q", current)
	}
	gen, err := semver.NewVersion(generated)
	if err != nil {
		return false, errors.Wrapf(err, "parse version %q", generated)
	}

	constraint := fmt.Sprintf("^%d.%d", cur.Major(), cur.Minor())
	if cur.Major() > 0 {
		constraint = fmt.Sprintf("^%d", cur.Major())
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, errors.Wrapf(err, "build constraint %q", constraint)
	}
	return c.Check(gen), nil
}
