// Package config provides configuration management for kescan.
package config
