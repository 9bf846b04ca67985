// Package config loads layered application configuration: a config.yml base,
// overridden by environment variables, optionally seeded from a .env file.
//
// Load returns the full mechkit Config with defaults applied and all
// sections validated:
//
//	cfg, err := config.Load("my-app")
//
// LoadConfig unmarshals into any caller-provided struct for applications
// with their own configuration shape. The FileSystem seam makes the loader
// testable without touching the real filesystem.
package config
