// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ArchiveUnpackFailedId Id = iota + 1
	ArchiveRepackFailedId
	ScratchNotDirectoryId
	ExecutableRemovalFailedId
	ProfileEntriesFailedId
	ClasspathArchiveFailedId
	InvalidPlatformId
	ConfigLoadFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue Markdown with glamour using the given style
// ("dark", "light", "notty" or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	archiveUnpackFailedIssue = &Issue{
		id: ArchiveUnpackFailedId,
		mdMsg: `
# Failed to unpack an archive!

An archive in the output directory could not be read as a zip file.

## Common causes:
- The runtime was not copied completely into the output directory
- The classpath entry points to something that is not a jar
- The archive is truncated or was produced by a failed earlier run

## Things you can try:
- Check the archive with a zip tool:
~~~
$ unzip -l out/jre/lib/rt.jar
~~~

- Re-run the packaging step that produces the output directory, then reduce again`,
	}

	archiveRepackFailedIssue = &Issue{
		id: ArchiveRepackFailedId,
		mdMsg: `
# Failed to repack an archive!

The pruned contents were unpacked correctly but writing the new archive failed.
The original archive may already be gone, so the output directory should be
rebuilt before it is shipped.

## Things you can try:
- Make sure the output directory is on a writable file system with free space
- Re-run the packaging step and reduce again`,
	}

	scratchNotDirectoryIssue = &Issue{
		id: ScratchNotDirectoryId,
		mdMsg: `
# Scratch path is not a directory!

Repacking unpacks each archive into a scratch directory next to it
(for example ` + "`jre/lib/rt`" + ` or ` + "`app.jar.tmp`" + `). A regular file is
sitting at that path, so nothing was touched.

## Things you can try:
- Remove or rename the file at the reported path and run again
- Change the scratch suffix in your configuration:
~~~cue
layout: {
  scratch_suffix: ".unpacked"
}
~~~`,
	}

	executableRemovalFailedIssue = &Issue{
		id: ExecutableRemovalFailedId,
		mdMsg: `
# Failed to remove runtime executables!

The runtime ` + "`bin`" + ` directory could not be pruned. On Windows targets only
` + "`bin/client`" + ` and the ` + "`.exe`" + ` files are removed; on other targets the
whole directory goes.

## Things you can try:
- Check that no process is running from the output runtime
- Check the permissions of the ` + "`jre/bin`" + ` directory`,
	}

	profileEntriesFailedIssue = &Issue{
		id: ProfileEntriesFailedId,
		mdMsg: `
# Some minimization profile entries could not be removed!

Strict profile mode is enabled, so entries that failed to delete are reported as
an error. Every other entry was still processed and the runtime archive was
repacked.

## Things you can try:
- Inspect the resolved profile:
~~~
$ packr profiles show hard
~~~

- Disable strict mode to only log failing entries:
~~~cue
strict_profile: false
~~~`,
	}

	classpathArchiveFailedIssue = &Issue{
		id: ClasspathArchiveFailedId,
		mdMsg: `
# Failed to filter a classpath archive!

Filtering stops at the first archive that fails. Archives listed after it were
not processed.

## Things you can try:
- Check that every classpath entry was copied into the output directory under
  its base name
- Run with verbose mode for more details:
~~~
$ packr --verbose reduce out --platform linux64 --classpath app.jar
~~~`,
	}

	invalidPlatformIssue = &Issue{
		id: InvalidPlatformId,
		mdMsg: `
# Invalid platform!

## Valid platforms:
- **windows32**, **windows64**: keep ` + "`.dll`" + `, drop ` + "`.dylib`" + ` and ` + "`.so`" + `
- **linux32**, **linux64**: keep ` + "`.so`" + `, drop ` + "`.dylib`" + ` and ` + "`.dll`" + `
- **macos**: keep ` + "`.dylib`" + `, drop ` + "`.dll`" + ` and ` + "`.so`" + `

## Example:
~~~
$ packr reduce out --platform windows64
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the packr configuration file.

## Configuration file locations:
- Linux: ~/.config/packr/config.cue
- macOS: ~/Library/Application Support/packr/config.cue
- Windows: %LOCALAPPDATA%\packr\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ packr config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
platform: "linux64"
minimize_profile: "soft"
classpath: ["app.jar"]

ui: {
  verbose: false
}
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

The output directory contains files you cannot modify.

## Things you can try:
- Check file and directory permissions under the output directory
- Run packr as the user that produced the output directory`,
	}

	issues = map[Id]*Issue{
		archiveUnpackFailedIssue.Id():     archiveUnpackFailedIssue,
		archiveRepackFailedIssue.Id():     archiveRepackFailedIssue,
		scratchNotDirectoryIssue.Id():     scratchNotDirectoryIssue,
		executableRemovalFailedIssue.Id(): executableRemovalFailedIssue,
		profileEntriesFailedIssue.Id():    profileEntriesFailedIssue,
		classpathArchiveFailedIssue.Id():  classpathArchiveFailedIssue,
		invalidPlatformIssue.Id():         invalidPlatformIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		permissionDeniedIssue.Id():        permissionDeniedIssue,
	}
)

// Get returns the catalog entry for id, or nil when none exists.
func Get(id Id) *Issue {
	return issues[id]
}
