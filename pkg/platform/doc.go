// SPDX-License-Identifier: MPL-2.0

// Package platform describes the packaging targets a bundled runtime can be
// built for.
//
// Each target maps to a static row of shared-library facts: the library
// extension native to the target and the extensions belonging to every other
// target ("foreign" extensions). Adding a target means adding a row to the
// tables in platform.go; no caller branches on the target directly.
package platform
