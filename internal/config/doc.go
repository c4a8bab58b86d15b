// Package config loads redline settings.
//
// Settings come from three layers, lowest precedence first:
//
//  1. built-in defaults (Default)
//  2. a TOML file, usually $XDG_CONFIG_HOME/redline/config.toml
//  3. REDLINE_* environment variables
//
// A missing file is not an error. The merged result is validated before it
// is returned.
//
// Example file:
//
//	[viewport]
//	debounce = "25ms"
//
//	[log]
//	level = "info"
//	format = "text"
//
//	[render]
//	insert = "#98c379"
//	delete = "#e06c75"
//	comment = "#e5c07b"
//
//	[metrics]
//	addr = ":9464"
package config
