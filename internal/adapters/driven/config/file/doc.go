// Package file provides file-based implementations of driven port
// interfaces. The ConfigStore persists settings (provider choices,
// API keys, data directories) to a TOML file.
package file
