// SPDX-License-Identifier: MPL-2.0

// Package reduce shrinks an unpacked application output directory before it is
// shipped. It implements two passes over the same tree:
//
//   - runtime minimization: platform-specific removal of runtime executables,
//     deletion of the paths listed in a minimization profile, and a repack of
//     the runtime's main archive without the deleted members;
//   - platform library filtering: every classpath archive is unpacked, shared
//     libraries built for other platforms are removed, and the archive is
//     repacked in place.
//
// Everything runs sequentially on the calling goroutine. The pass assumes it
// is the only writer on the output tree for its duration.
package reduce
