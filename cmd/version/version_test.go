package version

import (
	"bytes"
	"encoding/json"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnetwork/event-attestator/internal/display"
)

func withBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	prev := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	t.Cleanup(func() { readBuildInfo = prev })
}

func withLdflags(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	pv, pc, pb := Version, Commit, BuildTime
	Version, Commit, BuildTime = version, commit, buildTime
	t.Cleanup(func() { Version, Commit, BuildTime = pv, pc, pb })
}

func TestLdflagsTakePrecedence(t *testing.T) {
	withLdflags(t, "v1.2.3", "0123456789abcdef", "2024-05-01T10:00:00Z")
	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v0.0.1"}})

	assert.Equal(t, "v1.2.3", getVersion())
	assert.Equal(t, "012345678", getCommit())
	assert.Equal(t, "2024-05-01T10:00:00Z (commit time)", getBuildTimeDisplay())
}

func TestDirtyBuildTime(t *testing.T) {
	withLdflags(t, "v1.2.3-dirty", "", "2024-05-01T10:00:00Z")
	withBuildInfo(t, nil)
	assert.Equal(t, "2024-05-01T10:00:00Z (build time)", getBuildTimeDisplay())
}

func TestBuildInfoFallback(t *testing.T) {
	withLdflags(t, "", "", "")
	withBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "fedcba9876543210"},
			{Key: "vcs.time", Value: "2024-01-02T03:04:05Z"},
		},
	})

	assert.Equal(t, "v0.4.0", getVersion())
	assert.Equal(t, "fedcba987", getCommit())
	assert.Equal(t, "2024-01-02T03:04:05Z (commit time)", getBuildTimeDisplay())
}

func TestNoBuildInfo(t *testing.T) {
	withLdflags(t, "", "", "")
	withBuildInfo(t, nil)

	assert.Equal(t, "(devel)", getVersion())
	assert.Empty(t, getCommit())
	assert.Equal(t, "unknown", getBuildTimeDisplay())
}

func TestVersionCmd(t *testing.T) {
	withLdflags(t, "v1.2.3", "abc", "")
	withBuildInfo(t, nil)

	t.Run("Text", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := NewVersionCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, buf.String(), VersionLabel+"\tv1.2.3")
		assert.Contains(t, buf.String(), CommitLabel+"\tabc")
	})

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := NewVersionCmd()
		cmd.Flags().String(display.OutputFlag, "json", "")
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{})
		require.NoError(t, cmd.Execute())

		var out struct {
			Result versionInfo `json:"result"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "v1.2.3", out.Result.Version)
		assert.Equal(t, "unknown", out.Result.BuildTime)
	})

	t.Run("Args", func(t *testing.T) {
		cmd := NewVersionCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"extra"})
		assert.Error(t, cmd.Execute())
	})
}
