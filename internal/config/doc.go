// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/sourcery-build/config.cue on Linux
// (~/Library/Application Support/sourcery-build/config.cue on macOS,
// %APPDATA%\sourcery-build\config.cue on Windows) or from an explicit path. Files are
// validated against the embedded config_schema.cue before being merged over the
// defaults, and SOURCERY_BUILD_* environment variables override both.
package config
