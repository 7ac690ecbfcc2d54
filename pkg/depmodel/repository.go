// Package depmodel holds the core data types shared across the scan
// pipeline: repositories, dependencies, commits, tags, and evaluations.
package depmodel

import (
	"fmt"
	"regexp"
	"strings"
)

// RepositoryKind tags the variant held by a Repository value.
type RepositoryKind int

// Repository variants. Unknown is the zero value.
const (
	RepositoryUnknown RepositoryKind = iota
	RepositoryGitHub
	RepositoryGitLab
	RepositoryRaw
)

var (
	githubHostPattern = regexp.MustCompile(`.*?github\.com[:/](?P<organization>.*?)/(?P<name>.*?)(?:$|\.git|/)`)
	gitlabHostPattern = regexp.MustCompile(`.*?gitlab\.com[:/](?P<organization>.*?)/(?P<name>.*?)(?:$|\.git|/)`)
)

// Repository identifies an upstream source location. Equality is structural.
type Repository struct {
	Kind         RepositoryKind
	Organization string
	Name         string
	Address      string
}

// Unknown reports the Unknown repository, the zero value of Repository.
func Unknown() Repository { return Repository{} }

// URL derives the canonical URL for the repository, or ("", false) for Unknown.
func (r Repository) URL() (string, bool) {
	switch r.Kind {
	case RepositoryGitHub:
		return fmt.Sprintf("https://github.com/%s/%s", r.Organization, r.Name), true
	case RepositoryGitLab:
		return fmt.Sprintf("https://gitlab.com/%s/%s", r.Organization, r.Name), true
	case RepositoryRaw:
		return r.Address, true
	case RepositoryUnknown:
		return "", false
	default:
		return "", false
	}
}

// String renders a human-readable form for error messages and report rows.
func (r Repository) String() string {
	switch r.Kind {
	case RepositoryGitHub:
		return fmt.Sprintf("github:%s/%s", r.Organization, r.Name)
	case RepositoryGitLab:
		return fmt.Sprintf("gitlab:%s/%s", r.Organization, r.Name)
	case RepositoryRaw:
		return r.Address
	case RepositoryUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// ParseRepositoryURL parses a registry-supplied URL into a Repository.
// Empty or whitespace-only input yields Unknown; a github.com or gitlab.com
// host yields the matching typed variant; anything else non-empty becomes Raw.
func ParseRepositoryURL(address string) Repository {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return Unknown()
	}

	if match := githubHostPattern.FindStringSubmatch(trimmed); match != nil {
		return Repository{
			Kind:         RepositoryGitHub,
			Organization: match[githubHostPattern.SubexpIndex("organization")],
			Name:         match[githubHostPattern.SubexpIndex("name")],
		}
	}

	if match := gitlabHostPattern.FindStringSubmatch(trimmed); match != nil {
		return Repository{
			Kind:         RepositoryGitLab,
			Organization: match[gitlabHostPattern.SubexpIndex("organization")],
			Name:         match[gitlabHostPattern.SubexpIndex("name")],
		}
	}

	return Repository{Kind: RepositoryRaw, Address: trimmed}
}
