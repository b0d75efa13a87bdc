package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuildInfo(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	SetBuildInfo(version, commit, date)
	t.Cleanup(func() { SetBuildInfo(origVersion, origCommit, origDate) })
}

func TestGetCodenameForVersion(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		expected string
	}{
		{"exact match", "0.1.0", "Seed"},
		{"patch uses minor release name", "0.1.7", "Seed"},
		{"later release", "0.3.2", "Seedling"},
		{"prerelease", "1.0.0-rc.1", "Harvest"},
		{"unnamed release", "0.9.0", ""},
		{"invalid", "not-a-version", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetCodenameForVersion(tt.version))
		})
	}
}

func TestGetFormattedVersion(t *testing.T) {
	withBuildInfo(t, "0.1.0", "abcdef1234567", "2025-06-01")
	assert.Equal(t, "GreenThumb v0.1.0 'Seed', commit abcdef1, built 2025-06-01", GetFormattedVersion())

	withBuildInfo(t, "0.9.0", "unknown", "unknown")
	assert.Equal(t, "GreenThumb v0.9.0", GetFormattedVersion())
	assert.True(t, IsDevelopment())

	withBuildInfo(t, "bogus", "unknown", "unknown")
	assert.Equal(t, "GreenThumb vbogus (invalid version)", GetFormattedVersion())
	assert.Error(t, ValidateVersion())
}

func TestGetDetailedVersion(t *testing.T) {
	withBuildInfo(t, "0.2.0-beta.1", "abc", "2025-06-01")

	detailed := GetDetailedVersion()
	assert.Contains(t, detailed, "GreenThumb v0.2.0-beta.1")
	assert.Contains(t, detailed, "Codename: Sprout")
	assert.Contains(t, detailed, "Prerelease: beta.1")
	assert.Contains(t, detailed, "Git Commit: abc")
	assert.Contains(t, detailed, "Go Version: go")
}

func TestGetInfo(t *testing.T) {
	withBuildInfo(t, "0.1.3", "abc", "2025-06-01")

	info, err := GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "0.1.3", info.Version)
	assert.Equal(t, "Seed", info.Codename)
	assert.Equal(t, uint64(3), info.SemVer.Patch())
	assert.False(t, IsDevelopment())
}

func TestCompareVersions(t *testing.T) {
	result, err := CompareVersions("0.1.0", "0.2.0")
	require.NoError(t, err)
	assert.Equal(t, -1, result)

	result, err = CompareVersions("1.0.0", "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, 0, result)

	_, err = CompareVersions("x", "1.0.0")
	assert.ErrorContains(t, err, "invalid version v1")
}
