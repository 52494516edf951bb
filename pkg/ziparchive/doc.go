// SPDX-License-Identifier: MPL-2.0

// Package ziparchive is the directory-archive primitive used by the reduction
// pass: a zip-compatible archive (jar, zip) can be unpacked into a directory
// and a directory can be packed back into an archive.
//
// Only whole-directory operations are offered. Member order inside a packed
// archive follows the lexical walk of the source directory so repeated packs
// of the same tree produce the same member sequence.
package ziparchive
