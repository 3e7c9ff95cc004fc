// Package config loads application settings from defaults, an optional
// config.yaml, and CADENCE_-prefixed environment variables, in increasing
// order of precedence, and validates the result before anything starts.
package config
