// Package config loads vnav's settings.
//
// Settings come from three places, later ones overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A configuration file, TOML or YAML by extension
//  3. Environment variables (VNAV_TAB_WIDTH, VNAV_SOFT_WRAP,
//     VNAV_LOG_LEVEL, VNAV_LOG_FILE)
//
// Command line flags are applied on top by the caller.
//
// # Configuration Files
//
//	# ~/.config/vnav/config.toml
//	[editor]
//	tab_width = 4
//	soft_wrap = true
//	ambiguous_wide = false
//	scroll_off = 3
//
//	[logging]
//	level = "debug"
//	file = "/tmp/vnav.log"
//
// A missing file is not an error. Unknown keys are.
//
// # Live Reload
//
// Reloader watches the file (see package watcher) and hands each newly
// loaded and validated Config, or the error that prevented it, to a
// callback.
package config
