// SPDX-License-Identifier: MPL-2.0

package reduce

import (
	"bytes"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"

	"github.com/packrgo/packr/internal/testutil"
	"github.com/packrgo/packr/pkg/platform"
)

// runtimeMembers is the content of the fixture runtime archive.
var runtimeMembers = map[string]string{
	"java/lang/Object.class":      "object",
	"java/util/List.class":        "list",
	"com/sun/corba/ORB.class":     "orb",
	"com/sun/corba/se/Impl.class": "impl",
	"sun/applet/Viewer.class":     "viewer",
}

// newTestReducer returns a Reducer that logs into a buffer and resolves
// bundled profiles from profiles.
func newTestReducer(t *testing.T, profiles fstest.MapFS) (*Reducer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	opts := []Option{WithLogger(logger)}
	if profiles != nil {
		opts = append(opts, WithProfileLoader(NewProfileLoaderFS(profiles)))
	}
	return New(opts...), &buf
}

// bundled builds an in-memory bundled profile set.
func bundled(profiles map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range profiles {
		fsys[bundledDir+"/"+name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

// writeRuntime lays out a conventional runtime under root.
func writeRuntime(t *testing.T, root string) {
	t.Helper()
	testutil.WriteArchive(t, filepath.Join(root, "jre", "lib", "rt.jar"), runtimeMembers)
	testutil.WriteArchive(t, filepath.Join(root, "jre", "lib", "rhino.jar"), map[string]string{"org/mozilla/Context.class": "rhino"})
	testutil.WriteTree(t, root, map[string]string{
		"jre/bin/java.exe":        "MZ",
		"jre/bin/javaw.exe":       "MZ",
		"jre/bin/jli.dll":         "MZ",
		"jre/bin/java":            "ELF",
		"jre/bin/client/jvm.dll":  "MZ",
		"jre/lib/ext/sunec.jar":   "ext",
		"jre/lib/security/policy": "policy",
	})
}

func minimizeOptions(p platform.Platform, profile string) Options {
	return Options{Platform: p, MinimizationProfile: profile}
}

