// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for packr.
//
// The root command is built by NewRootCommand from an App, the composition
// root holding the configuration provider, the profile loader and the
// output streams. Execute wires the tree through fang for styling, version
// output and interrupt handling.
package cmd
