package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, Name, info.Name)
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, GitCommit, info.GitCommit)
	assert.Equal(t, BuildDate, info.BuildDate)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfoString(t *testing.T) {
	info := Get()
	str := info.String()
	for _, value := range []string{info.Name, info.Version, info.GitCommit, info.BuildDate, info.GoVersion, info.Platform} {
		assert.Contains(t, str, value)
	}
}

func TestInfoShort(t *testing.T) {
	short := Get().Short()
	assert.True(t, strings.HasPrefix(short, "v"), short)
	assert.Contains(t, short, Version)
	assert.Contains(t, short, GitCommit)
}

func TestVersionVariablesModification(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate
	})

	Version = "1.2.3"
	GitCommit = "abc123def"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Get()
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123def", info.GitCommit)
	assert.Equal(t, "2024-01-15T10:30:00Z", info.BuildDate)
	assert.Equal(t, "v1.2.3 (abc123def)", info.Short())
}
