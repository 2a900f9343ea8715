// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/coresolve/config.cue (~/.config/coresolve
// when unset; ~/Library/Application Support/coresolve on macOS, %APPDATA%\coresolve on
// Windows), or from an explicit path. It records where builds and caches live and which
// core libraries are searched, in the order discovery must visit them.
//
// The file is validated against an embedded CUE schema (config_schema.cue) so that
// misspelled keys and wrong types are reported with their path.
package config
