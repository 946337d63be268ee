package version

import (
	"runtime/debug"
	"strings"
	"time"
)

// These variables can be overridden at build time with ldflags
var (
	Version   string // -X github.com/pnetwork/event-attestator/cmd/version.Version=...
	Commit    string // -X github.com/pnetwork/event-attestator/cmd/version.Commit=...
	BuildTime string // -X github.com/pnetwork/event-attestator/cmd/version.BuildTime=...
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

func buildSetting(key string) string {
	info, ok := readBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// getVersion returns the ldflags version, otherwise the main module version
func getVersion() string {
	if Version != "" {
		return Version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// getCommit returns the commit (short form), falling back to the vcs stamp
func getCommit() string {
	commit := Commit
	if commit == "" {
		commit = buildSetting("vcs.revision")
	}

	const shortHashLength = 9
	if len(commit) > shortHashLength {
		return commit[:shortHashLength]
	}
	return commit
}

func getBuildTime() time.Time {
	for _, s := range []string{BuildTime, buildSetting("vcs.time")} {
		if s == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// getBuildTimeDisplay returns a formatted build time with context about whether it's commit or build time
func getBuildTimeDisplay() string {
	buildTime := getBuildTime()
	if buildTime.IsZero() {
		return "unknown"
	}

	// ldflags builds from a dirty tree stamp the build time instead of the commit time
	if BuildTime != "" && strings.HasSuffix(getVersion(), "dirty") {
		return buildTime.Format(time.RFC3339) + " (build time)"
	}
	return buildTime.Format(time.RFC3339) + " (commit time)"
}
