package depmodel

import "sort"

// Dependency is one resolved entry from a lock file, enriched with registry
// metadata. All four fields participate in equality.
type Dependency struct {
	Name           string
	Version        string
	LatestVersion  string // empty when unknown.
	Repository     Repository
}

// Commit is a single commit's identity and authorship.
type Commit struct {
	ID                string
	AuthorName        string
	AuthorEmail       string
	CreationTimestamp int64 // signed seconds since epoch.
}

// Tag names a specific commit, typically marking a release.
type Tag struct {
	Name            string
	CommitID        string
	CommitTimestamp uint64 // unsigned seconds since epoch.
}

// Tags is an ordered list of Tag values.
type Tags []Tag

// SortAscending stable-sorts the tags by CommitTimestamp, oldest first.
func (t Tags) SortAscending() {
	sort.SliceStable(t, func(i, j int) bool {
		return t[i].CommitTimestamp < t[j].CommitTimestamp
	})
}
