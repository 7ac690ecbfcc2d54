package lockfile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brackwater-io/depsentry/pkg/lockfile"
)

const cargoFixture = `# This file is automatically @generated by Cargo.
# It is not intended for manual editing.
version = 3

[[package]]
name = "serde"
version = "1.0.137"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "61ea8d54c77f8315140a05f4c7237403bf38b72704d031543aa1d16abbc26e"
dependencies = [
 "serde_derive",
]

[[package]]
name = "left-pad"
version = "0.0.1"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "deadbeef"
`

func TestCargoReaderReadsPackageArray(t *testing.T) {
	entries, err := lockfile.CargoReader{}.Read(strings.NewReader(cargoFixture))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, lockfile.Entry{Name: "serde", Version: "1.0.137"}, entries[0])
	assert.Equal(t, lockfile.Entry{Name: "left-pad", Version: "0.0.1"}, entries[1])
}
