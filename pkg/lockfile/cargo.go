package lockfile

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pelletier/go-toml/v2"
)

// cargoLockFile is the [[package]] array of a Cargo.lock; the checksum and
// dependencies fields are present in the file but unused here.
type cargoLockFile struct {
	Package []cargoPackage `toml:"package"`
}

type cargoPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// CargoReader reads a Cargo.lock file.
type CargoReader struct{}

// Read implements Reader.
func (CargoReader) Read(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read Cargo.lock: %w", err)
	}

	var file cargoLockFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse Cargo.lock: %w", err)
	}

	entries := make([]Entry, 0, len(file.Package))

	for _, pkg := range file.Package {
		if pkg.Name == "" || pkg.Version == "" {
			slog.Error("cargo lock entry missing name or version, skipping", "name", pkg.Name)

			continue
		}

		entries = append(entries, Entry{Name: pkg.Name, Version: pkg.Version})
	}

	return entries, nil
}
