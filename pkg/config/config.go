// Package config provides YAML-based configuration loading for depsentry.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidReleaseWindow    = errors.New("min_number_of_releases and days must be positive")
	ErrInvalidContributorRatio = errors.New("max_contributor_ratio must be in (0, 1]")
	ErrInvalidLifespanWindow   = errors.New("max_lifespan_in_seconds must be positive")
)

// Default configuration values, per spec: 3 releases / 180 days; ratio 0.5
// over 3 releases; lifespan 30 days over 300 records.
const (
	DefaultMinNumberOfReleases   = 3
	DefaultReleaseWindowDays     = 180
	DefaultMaxReleasesToCheck    = 3
	DefaultMaxContributorRatio   = 0.5
	defaultLifespanDays          = 30
	DefaultMaxLifespanInSeconds  = defaultLifespanDays * 24 * 60 * 60
	DefaultLastIssues            = 300
	DefaultLastPullRequests      = 300
)

// MinReleasesConfig configures the minimum-releases-in-window policy.
type MinReleasesConfig struct {
	MinNumberOfReleases int  `mapstructure:"min_number_of_releases" yaml:"min_number_of_releases"`
	Days                int  `mapstructure:"days" yaml:"days"`
	Enabled             bool `mapstructure:"enabled" yaml:"enabled"`
}

// ContributorsRatioConfig configures the contributor-concentration policy.
type ContributorsRatioConfig struct {
	MaxNumberOfReleasesToCheck int     `mapstructure:"max_number_of_releases_to_check" yaml:"max_number_of_releases_to_check"`
	MaxContributorRatio       float64 `mapstructure:"max_contributor_ratio" yaml:"max_contributor_ratio"`
	Enabled                   bool    `mapstructure:"enabled" yaml:"enabled"`
}

// MaxIssueLifespanConfig configures the issue-lifespan policy.
type MaxIssueLifespanConfig struct {
	MaxLifespanInSeconds int64 `mapstructure:"max_lifespan_in_seconds" yaml:"max_lifespan_in_seconds"`
	LastIssues           int   `mapstructure:"last_issues" yaml:"last_issues"`
}

// MaxPullRequestLifespanConfig configures the pull-request-lifespan policy.
type MaxPullRequestLifespanConfig struct {
	MaxLifespanInSeconds int64 `mapstructure:"max_lifespan_in_seconds" yaml:"max_lifespan_in_seconds"`
	LastPullRequests     int   `mapstructure:"last_pull_requests" yaml:"last_pull_requests"`
}

// Policies is the set of optional policy sub-configurations. A nil pointer
// means the block does not configure that policy, and no policy is built
// for it. LoadConfig fills missing sub-configurations of the top-level
// block with defaults; per-dependency blocks get no defaults.
type Policies struct {
	MinNumberOfReleasesRequired *MinReleasesConfig           `mapstructure:"min_number_of_releases_required" yaml:"min_number_of_releases_required,omitempty"`
	ContributorsRatio           *ContributorsRatioConfig      `mapstructure:"contributors_ratio" yaml:"contributors_ratio,omitempty"`
	MaxIssueLifespan            *MaxIssueLifespanConfig       `mapstructure:"max_issue_lifespan" yaml:"max_issue_lifespan,omitempty"`
	MaxPullRequestLifespan      *MaxPullRequestLifespanConfig `mapstructure:"max_pull_request_lifespan" yaml:"max_pull_request_lifespan,omitempty"`
}

// DependencyConfig binds a Policies override to a dependency-name pattern.
type DependencyConfig struct {
	Name     string   `mapstructure:"name" yaml:"name"`
	Policies Policies `mapstructure:"policies" yaml:"policies"`
}

// Config is the top-level YAML configuration shape.
type Config struct {
	DefaultPolicies  Policies           `mapstructure:"policies" yaml:"policies"`
	DependencyConfig []DependencyConfig `mapstructure:"dependency_config" yaml:"dependency_config,omitempty"`
}

// LoadConfig loads configuration from file and environment variables,
// applying the spec-mandated defaults for any missing policy block.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("config")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/depsentry")
	}

	viperCfg.SetEnvPrefix("DEPSENTRY")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	if validateErr := validate(&cfg); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &cfg, nil
}

// setDefaults seeds viper with the spec-mandated policy defaults so that a
// config file omitting a block still produces a fully-specified policy set.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("policies.min_number_of_releases_required.min_number_of_releases", DefaultMinNumberOfReleases)
	viperCfg.SetDefault("policies.min_number_of_releases_required.days", DefaultReleaseWindowDays)
	viperCfg.SetDefault("policies.min_number_of_releases_required.enabled", true)

	viperCfg.SetDefault("policies.contributors_ratio.max_number_of_releases_to_check", DefaultMaxReleasesToCheck)
	viperCfg.SetDefault("policies.contributors_ratio.max_contributor_ratio", DefaultMaxContributorRatio)
	viperCfg.SetDefault("policies.contributors_ratio.enabled", true)

	viperCfg.SetDefault("policies.max_issue_lifespan.max_lifespan_in_seconds", DefaultMaxLifespanInSeconds)
	viperCfg.SetDefault("policies.max_issue_lifespan.last_issues", DefaultLastIssues)

	viperCfg.SetDefault("policies.max_pull_request_lifespan.max_lifespan_in_seconds", DefaultMaxLifespanInSeconds)
	viperCfg.SetDefault("policies.max_pull_request_lifespan.last_pull_requests", DefaultLastPullRequests)
}

// validate rejects configurations with nonsensical policy parameters.
func validate(cfg *Config) error {
	all := append([]Policies{cfg.DefaultPolicies}, policiesOf(cfg.DependencyConfig)...)

	for _, p := range all {
		if p.MinNumberOfReleasesRequired != nil {
			c := p.MinNumberOfReleasesRequired
			if c.MinNumberOfReleases <= 0 || c.Days <= 0 {
				return fmt.Errorf("%w: releases=%d days=%d", ErrInvalidReleaseWindow, c.MinNumberOfReleases, c.Days)
			}
		}

		if p.ContributorsRatio != nil {
			c := p.ContributorsRatio
			if c.MaxContributorRatio <= 0 || c.MaxContributorRatio > 1 {
				return fmt.Errorf("%w: got %f", ErrInvalidContributorRatio, c.MaxContributorRatio)
			}
		}

		if p.MaxIssueLifespan != nil && p.MaxIssueLifespan.MaxLifespanInSeconds <= 0 {
			return fmt.Errorf("%w: issue lifespan", ErrInvalidLifespanWindow)
		}

		if p.MaxPullRequestLifespan != nil && p.MaxPullRequestLifespan.MaxLifespanInSeconds <= 0 {
			return fmt.Errorf("%w: pull request lifespan", ErrInvalidLifespanWindow)
		}
	}

	return nil
}

func policiesOf(deps []DependencyConfig) []Policies {
	out := make([]Policies, 0, len(deps))
	for _, d := range deps {
		out = append(out, d.Policies)
	}

	return out
}

// ReleaseWindow returns the configured window as a duration.
func (c *MinReleasesConfig) ReleaseWindow() time.Duration {
	return time.Duration(c.Days) * 24 * time.Hour
}
