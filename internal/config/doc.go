// SPDX-License-Identifier: MPL-2.0

// Package config handles packr configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the packr directory under the
// XDG config home (~/.config/packr on Linux, ~/Library/Application Support/packr
// on macOS, %LOCALAPPDATA%\packr on Windows), falling back to ./config.cue.
// Files are validated against the embedded CUE schema (config_schema.cue) before
// they are merged over the defaults. Environment variables prefixed with PACKR_
// override file values, with nested keys joined by underscores
// (PACKR_UI_VERBOSE, PACKR_LAYOUT_RUNTIME_DIR).
package config
