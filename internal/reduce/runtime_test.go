// SPDX-License-Identifier: MPL-2.0

package reduce

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packrgo/packr/internal/testutil"
	"github.com/packrgo/packr/pkg/platform"
)

func TestMinimize_AbsentProfileLeavesTreeUntouched(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRuntime(t, root)
	before := testutil.Snapshot(t, root)

	r, buf := newTestReducer(t, nil)
	res, err := r.Minimize(root, Options{Platform: platform.Windows32})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Nil(t, res.Archive)

	assert.Equal(t, before, testutil.Snapshot(t, root))
	assert.Empty(t, buf.String())
}

func TestMinimize_Windows32Executables(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRuntime(t, root)
	testutil.MustWriteFile(t, filepath.Join(root, "jre", "bin", "KEYTOOL.EXE"), "MZ")

	r, _ := newTestReducer(t, bundled(map[string]string{"none": "\n"}))
	_, err := r.Minimize(root, minimizeOptions(platform.Windows32, "none"))
	require.NoError(t, err)

	bin := filepath.Join(root, "jre", "bin")
	assert.NoDirExists(t, filepath.Join(bin, "client"))
	assert.NoFileExists(t, filepath.Join(bin, "java.exe"))
	assert.NoFileExists(t, filepath.Join(bin, "javaw.exe"))
	assert.NoFileExists(t, filepath.Join(bin, "KEYTOOL.EXE"))
	assert.FileExists(t, filepath.Join(bin, "jli.dll"))
	assert.FileExists(t, filepath.Join(bin, "java"))
}

func TestMinimize_NonWindowsRemovesBin(t *testing.T) {
	t.Parallel()

	for _, p := range []platform.Platform{platform.Linux32, platform.Linux64, platform.MacOS} {
		t.Run(p.String(), func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			writeRuntime(t, root)

			r, _ := newTestReducer(t, bundled(map[string]string{"none": ""}))
			_, err := r.Minimize(root, minimizeOptions(p, "none"))
			require.NoError(t, err)
			assert.NoDirExists(t, filepath.Join(root, "jre", "bin"))
			assert.DirExists(t, filepath.Join(root, "jre", "lib", "ext"))
		})
	}
}

func TestMinimize_ProfileEntriesAndRepack(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRuntime(t, root)

	profile := "jre/lib/rt/com/sun/corba\n\njre/lib/security/policy\n  jre/lib/rt/sun/applet/Viewer.class  \njre/lib/rt/not/there\n"
	r, _ := newTestReducer(t, bundled(map[string]string{"test": profile}))
	res, err := r.Minimize(root, minimizeOptions(platform.Linux64, "test"))
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assert.Equal(t, "test", res.Profile)
	require.Len(t, res.Entries, 4, "blank entries are skipped")
	assert.Empty(t, res.Failed())
	assert.Equal(t, "jre/lib/rt/sun/applet/Viewer.class", res.Entries[2].Path)

	rt := filepath.Join(root, "jre", "lib", "rt.jar")
	assert.Equal(t, map[string]string{
		"java/lang/Object.class": "object",
		"java/util/List.class":   "list",
	}, testutil.ArchiveContents(t, rt))
	require.NotNil(t, res.Archive)
	assert.Equal(t, rt, res.Archive.Path)

	assert.NoDirExists(t, filepath.Join(root, "jre", "lib", "rt"), "scratch is removed")
	assert.NoFileExists(t, filepath.Join(root, "jre", "lib", "rhino.jar"))
	assert.NoFileExists(t, filepath.Join(root, "jre", "lib", "security", "policy"))
	assert.FileExists(t, filepath.Join(root, "jre", "lib", "ext", "sunec.jar"))
}

func TestMinimize_FailingEntryDoesNotBlockLaterEntries(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRuntime(t, root)
	outside := filepath.Join(filepath.Dir(root), filepath.Base(root)+"-sibling")
	testutil.MustWriteFile(t, outside, "keep")

	profile := "../" + filepath.Base(outside) + "\njre/lib/rt/com/sun/corba\n"
	r, buf := newTestReducer(t, bundled(map[string]string{"test": profile}))
	res, err := r.Minimize(root, minimizeOptions(platform.Linux64, "test"))
	require.NoError(t, err, "profile entry failures are not fatal by default")

	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "../"+filepath.Base(outside), failed[0].Path)
	assert.FileExists(t, outside, "entries never reach outside the output root")
	assert.Contains(t, buf.String(), "failed to delete profile entry")

	contents := testutil.ArchiveContents(t, filepath.Join(root, "jre", "lib", "rt.jar"))
	assert.NotContains(t, contents, "com/sun/corba/ORB.class", "the entry after the failure was processed")
}

func TestMinimize_LeadingSlashIsRootedAtOutput(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRuntime(t, root)

	r, _ := newTestReducer(t, bundled(map[string]string{"test": "/jre/lib/security/policy\n/\n"}))
	res, err := r.Minimize(root, minimizeOptions(platform.Linux64, "test"))
	require.NoError(t, err)

	require.Len(t, res.Entries, 2)
	require.NoError(t, res.Entries[0].Err)
	assert.NoFileExists(t, filepath.Join(root, "jre", "lib", "security", "policy"))
	require.Error(t, res.Entries[1].Err, "a bare separator never resolves to the output root itself")
	assert.DirExists(t, filepath.Join(root, "jre", "lib", "ext"))
}

func TestMinimize_RemovalErrorDoesNotBlockLaterEntries(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("directory permission bits do not prevent deletion on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permission bits")
	}

	root := t.TempDir()
	writeRuntime(t, root)
	locked := filepath.Join(root, "jre", "lib", "locked")
	testutil.MustWriteFile(t, filepath.Join(locked, "fonts", "font.ttf"), "ttf")
	require.NoError(t, os.Chmod(locked, 0o555))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	profile := "jre/lib/locked/fonts\njre/lib/security/policy\n"
	r, buf := newTestReducer(t, bundled(map[string]string{"test": profile}))
	res, err := r.Minimize(root, minimizeOptions(platform.Linux64, "test"))
	require.NoError(t, err)

	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "jre/lib/locked/fonts", failed[0].Path)
	require.ErrorIs(t, failed[0].Err, fs.ErrPermission)
	assert.DirExists(t, filepath.Join(locked, "fonts"))
	assert.Contains(t, buf.String(), "failed to delete profile entry")

	assert.NoFileExists(t, filepath.Join(root, "jre", "lib", "security", "policy"), "the entry after the failure was deleted")
	assert.NoDirExists(t, filepath.Join(root, "jre", "lib", "rt"))
}

func TestMinimize_ExecutableRemovalFailureIsFatal(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	rt := filepath.Join(root, "jre", "lib", "rt.jar")
	testutil.WriteArchive(t, rt, runtimeMembers)
	// A file where the bin directory belongs makes bin/client unreachable.
	testutil.MustWriteFile(t, filepath.Join(root, "jre", "bin"), "not a directory")
	testutil.MustWriteFile(t, filepath.Join(root, "jre", "lib", "security", "policy"), "policy")

	r, _ := newTestReducer(t, bundled(map[string]string{"test": "jre/lib/security/policy\n"}))
	res, err := r.Minimize(root, minimizeOptions(platform.Windows32, "test"))
	require.ErrorIs(t, err, ErrRemoveExecutables)
	assert.Nil(t, res)

	assert.Equal(t, runtimeMembers, testutil.ArchiveContents(t, rt), "the runtime archive is not repacked")
	assert.NoDirExists(t, filepath.Join(root, "jre", "lib", "rt"), "scratch is removed")
	assert.FileExists(t, filepath.Join(root, "jre", "lib", "security", "policy"), "profile entries are not applied")
}

func TestMinimize_StrictProfile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRuntime(t, root)

	profile := "jre/../../outside\njre/lib/rt/com/sun/corba\n../escape\n"
	r, _ := newTestReducer(t, bundled(map[string]string{"test": profile}))
	opts := minimizeOptions(platform.Linux64, "test")
	opts.StrictProfile = true

	res, err := r.Minimize(root, opts)
	require.ErrorIs(t, err, ErrProfileEntries)
	require.NotNil(t, res, "strict failures still return the result")
	assert.Len(t, res.Failed(), 2)
	assert.Contains(t, err.Error(), "jre/../../outside")
	assert.Contains(t, err.Error(), "../escape")

	assert.NotContains(t, testutil.ArchiveContents(t, filepath.Join(root, "jre", "lib", "rt.jar")), "com/sun/corba/ORB.class",
		"the repack completes before strict failures are reported")
	assert.NoDirExists(t, filepath.Join(root, "jre", "lib", "rt"))
}

func TestMinimize_MissingRuntimeArchive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"jre/bin/java": "ELF"})

	r, _ := newTestReducer(t, bundled(map[string]string{"test": "x\n"}))
	res, err := r.Minimize(root, minimizeOptions(platform.Linux64, "test"))
	require.ErrorIs(t, err, ErrUnpack)
	assert.Nil(t, res)
	assert.FileExists(t, filepath.Join(root, "jre", "bin", "java"), "nothing runs after a failed unpack")
	assert.NoDirExists(t, filepath.Join(root, "jre", "lib", "rt"))
}

func TestMinimize_ScratchOccupiedByFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeRuntime(t, root)
	testutil.MustWriteFile(t, filepath.Join(root, "jre", "lib", "rt"), "file")
	before := testutil.Snapshot(t, root)

	r, _ := newTestReducer(t, bundled(map[string]string{"test": "x\n"}))
	_, err := r.Minimize(root, minimizeOptions(platform.Linux64, "test"))
	require.ErrorIs(t, err, ErrScratchNotDirectory)
	assert.Equal(t, before, testutil.Snapshot(t, root))
}

func TestMinimize_CustomLayout(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteArchive(t, filepath.Join(root, "runtime", "lib", "modules.jar"), runtimeMembers)
	testutil.WriteTree(t, root, map[string]string{"runtime/bin/java": "ELF"})

	r, _ := newTestReducer(t, bundled(map[string]string{"test": "runtime/lib/modules/sun\n"}))
	opts := minimizeOptions(platform.Linux64, "test")
	opts.Layout = Layout{RuntimeDir: "runtime", MainArchive: "lib/modules.jar"}

	res, err := r.Minimize(root, opts)
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(root, "runtime", "bin"))
	assert.NotContains(t, testutil.ArchiveContents(t, res.Archive.Path), "sun/applet/Viewer.class")
}

func TestMinimize_InvalidOptions(t *testing.T) {
	t.Parallel()

	r, _ := newTestReducer(t, nil)
	_, err := r.Minimize(t.TempDir(), minimizeOptions("beos", "soft"))
	require.ErrorIs(t, err, ErrInvalidOptions)
	assert.ErrorIs(t, err, platform.ErrInvalidPlatform)
}
