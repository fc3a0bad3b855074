package buildinfo

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fakeBuildInfo() (*debug.BuildInfo, bool) {
	return &debug.BuildInfo{
		GoVersion: "go1.26.1",
		Main:      debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-01T00:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}, true
}

func TestResolveFromVCS(t *testing.T) {
	info := resolve("", "", "", fakeBuildInfo)
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "abc123", info.Commit)
	assert.Equal(t, "2026-10-01T00:00:00Z", info.Date)
	assert.True(t, info.Modified)
	assert.Equal(t, "recon dev (commit abc123, built 2026-10-01T00:00:00Z, modified, go1.26.1)", info.String())
}

func TestResolveLdflagsOverrideVCS(t *testing.T) {
	info := resolve("v1.2.3", "def456", "", fakeBuildInfo)
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "def456", info.Commit)
	assert.Equal(t, "2026-10-01T00:00:00Z", info.Date, "date falls through to VCS")
}

func TestResolveWithoutBuildInfo(t *testing.T) {
	info := resolve("", "", "", func() (*debug.BuildInfo, bool) { return nil, false })
	assert.Equal(t, Info{Version: "dev", Commit: "unknown", Date: "unknown"}, info)
	assert.Equal(t, "recon dev (commit unknown, built unknown)", info.String())
}

func TestResolveReal(t *testing.T) {
	info := Resolve("", "", "")
	assert.NotEmpty(t, info.GoVer)
}
