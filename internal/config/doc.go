// Package config loads application configuration from environment
// variables (prefix MTDASH) layered over an optional YAML file, with
// sane defaults for local use. Environment always wins over the file.
package config
