package config

import "maps"

// TargetConfig holds per-target configuration for a single Knowledge Engine
// deployment. This allows customizing credentials and behavior per engine.
type TargetConfig struct {
	// AuthToken is a bearer token sent in the Authorization header.
	AuthToken string `yaml:"authToken,omitempty"`

	// Headers are custom HTTP headers to include in requests to this engine.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Suites restricts which check suites run against this engine.
	// If empty, the global suite selection is used.
	Suites []string `yaml:"suites,omitempty"`

	// JobTimeoutSeconds overrides the global job timeout for this engine.
	// If zero, the global JobTimeout is used.
	JobTimeoutSeconds int `yaml:"jobTimeoutSeconds,omitempty"`
}

// File represents the structure of the .kescan configuration file.
type File struct {
	// Targets maps engine base URLs to their per-target configurations.
	// Keys should be the base URL as passed on the command line
	// (e.g., "http://engine.internal:8001").
	Targets map[string]TargetConfig `yaml:"targets,omitempty"`

	// Defaults contains default target configuration applied to all engines
	// unless overridden in the target-specific configuration.
	Defaults TargetConfig `yaml:"defaults,omitempty"`
}

// GetTargetConfig returns the configuration for a specific engine base URL.
// It merges the target-specific configuration with defaults.
//
// The headers map is always cloned: the defaults are shared across every
// target (batch runs merge concurrently), so one target's headers must
// never end up in the map other targets read.
func (cf *File) GetTargetConfig(baseURL string) TargetConfig {
	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)

	if tc, ok := cf.Targets[baseURL]; ok {
		if tc.AuthToken != "" {
			result.AuthToken = tc.AuthToken
		}
		if tc.JobTimeoutSeconds != 0 {
			result.JobTimeoutSeconds = tc.JobTimeoutSeconds
		}
		if len(tc.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			maps.Copy(result.Headers, tc.Headers)
		}
		if len(tc.Suites) > 0 {
			result.Suites = tc.Suites
		}
	}

	return result
}
