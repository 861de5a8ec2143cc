// Package config defines configuration for the texfetch CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (TEXFETCH_ prefix)
//   - YAML configuration file
//
// Later sources override earlier ones in the order above, reversed: a flag
// beats an environment variable, which beats the file.
package config
