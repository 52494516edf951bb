// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Besides the Must* wrappers it builds fixture trees (WriteTree), fixture
// archives (WriteArchive, ArchiveContents) and tree snapshots (Snapshot) for
// the reduction tests, which compare output directories before and after a
// pass.
package testutil
