package lockfile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brackwater-io/depsentry/pkg/lockfile"
)

const npmFixture = `{
  "name": "example",
  "lockfileVersion": 2,
  "packages": {
    "": {"name": "example"},
    "node_modules/left-pad": {"version": "1.3.0"}
  },
  "dependencies": {
    "left-pad": {
      "version": "1.3.0",
      "resolved": "https://registry.npmjs.org/left-pad/-/left-pad-1.3.0.tgz"
    },
    "lodash": {
      "version": "4.17.21"
    }
  }
}`

func TestNPMReaderReadsTopLevelDependenciesOnly(t *testing.T) {
	entries, err := lockfile.NPMReader{}.Read(strings.NewReader(npmFixture))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]string{}
	for _, e := range entries {
		byName[e.Name] = e.Version
	}

	assert.Equal(t, "1.3.0", byName["left-pad"])
	assert.Equal(t, "4.17.21", byName["lodash"])
}

func TestKindFromFilename(t *testing.T) {
	assert.Equal(t, lockfile.KindNPM, lockfile.KindFromFilename("package-lock.json"))
	assert.Equal(t, lockfile.KindCargo, lockfile.KindFromFilename("/path/to/Cargo.lock"))
	assert.Equal(t, lockfile.KindYarn, lockfile.KindFromFilename("yarn.lock"))
	assert.Equal(t, lockfile.KindUnknown, lockfile.KindFromFilename("requirements.txt"))
}
