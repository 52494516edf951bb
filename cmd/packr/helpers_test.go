// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/packrgo/packr/internal/config"
	"github.com/packrgo/packr/internal/reduce"
	"github.com/packrgo/packr/internal/testutil"
	"github.com/packrgo/packr/pkg/platform"
)

// staticConfig is a ConfigProvider returning a fixed result.
type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return s.cfg, s.err
}

// testProfiles is the bundled profile set used by command tests.
var testProfiles = fstest.MapFS{
	"minimize/tiny":   {Data: []byte("jre/lib/ext\njre/lib/security/policy\n")},
	"minimize/broken": {Data: []byte("jre/lib/ext\n../outside\n")},
	"minimize/blank":  {Data: []byte("\n\n")},
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// newTestConfig returns the default config pinned to p.
func newTestConfig(p platform.Platform) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Platform = p
	return cfg
}

// runCLI executes the root command with args against provider.
func runCLI(t *testing.T, provider ConfigProvider, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		Config:   provider,
		Profiles: reduce.NewProfileLoaderFS(testProfiles),
		Stdout:   &stdout,
		Stderr:   &stderr,
	})

	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())

	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// writeOutputTree lays out a runtime and one classpath archive under root.
func writeOutputTree(t *testing.T, root string) {
	t.Helper()
	testutil.WriteArchive(t, filepath.Join(root, "jre", "lib", "rt.jar"), map[string]string{
		"java/lang/Object.class":  "object",
		"sun/applet/Viewer.class": "viewer",
	})
	testutil.WriteTree(t, root, map[string]string{
		"jre/bin/java":            "ELF",
		"jre/bin/java.exe":        "MZ",
		"jre/bin/client/jvm.dll":  "MZ",
		"jre/lib/ext/sunec.jar":   "ext",
		"jre/lib/security/policy": "policy",
	})
	testutil.WriteArchive(t, filepath.Join(root, "app.jar"), map[string]string{
		"com/example/Main.class": "main",
		"gdx64.dll":              "dll",
		"libgdx64.so":            "so",
		"libgdx64.dylib":         "dylib",
	})
}
