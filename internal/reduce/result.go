// SPDX-License-Identifier: MPL-2.0

package reduce

type (
	// EntryResult records the outcome of one minimization profile entry.
	// Err is nil when the entry was deleted or did not exist.
	EntryResult struct {
		Path string
		Err  error
	}

	// ArchiveResult describes one repacked archive.
	ArchiveResult struct {
		// Path is the archive path on disk.
		Path string
		// SizeBefore and SizeAfter are in bytes.
		SizeBefore int64
		SizeAfter  int64
		// Removed lists the members deleted before repacking, slash-separated
		// and relative to the archive root. Only the platform filter fills it.
		Removed []string
	}

	// MinimizeResult is the outcome of runtime minimization.
	MinimizeResult struct {
		// Skipped is true when no minimization profile was configured.
		Skipped bool
		// Profile is the identifier the entries were loaded from.
		Profile string
		// Entries holds one result per non-blank profile entry, in profile order.
		Entries []EntryResult
		// Archive is the repack result of the runtime's main archive.
		Archive *ArchiveResult
	}
)

// Saved returns the number of bytes the repack saved. It is negative when the
// archive grew.
func (r ArchiveResult) Saved() int64 {
	return r.SizeBefore - r.SizeAfter
}

// Failed returns the entries whose deletion failed.
func (r *MinimizeResult) Failed() []EntryResult {
	var failed []EntryResult
	for _, e := range r.Entries {
		if e.Err != nil {
			failed = append(failed, e)
		}
	}
	return failed
}
