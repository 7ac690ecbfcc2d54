package lockfile

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// npmLockFile mirrors only the top-level legacy "dependencies" object of a
// package-lock.json; the newer "packages" section is intentionally not
// read, matching the behavior this reader is modeled on.
type npmLockFile struct {
	Dependencies map[string]npmDependency `json:"dependencies"`
}

type npmDependency struct {
	Version string `json:"version"`
}

// NPMReader reads an NPM package-lock.json file.
type NPMReader struct{}

// Read implements Reader.
func (NPMReader) Read(r io.Reader) ([]Entry, error) {
	var file npmLockFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode package-lock.json: %w", err)
	}

	entries := make([]Entry, 0, len(file.Dependencies))

	for name, dep := range file.Dependencies {
		if dep.Version == "" {
			slog.Error("npm lock entry has no version, skipping", "name", name)

			continue
		}

		entries = append(entries, Entry{Name: name, Version: dep.Version})
	}

	return entries, nil
}
