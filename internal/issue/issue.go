// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

const (
	ToolNotFoundId Id = iota + 1
	TemplatesNotFoundId
	ConfigFileNotFoundId
	ArgFileInvalidId
	ManifestParseErrorId
	ConfigLoadFailedId
	ChecksumMismatchId
	HostNotSupportedId
	GenerationFailedId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to look up the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

const sourceryDocs HttpLink = "https://krzysztofzablocki.github.io/Sourcery/"

var (
	render = glamour.Render

	toolNotFoundIssue = &Issue{
		id: ToolNotFoundId,
		mdMsg: `
# The sourcery executable could not be found

Nothing was generated. Generation needs the ` + "`sourcery`" + ` binary, and it was
not found at the configured path, in the install directory, or on your PATH.

## Things you can try:
- Install the pinned release bundle:
~~~
$ sourcery-build install
~~~

- Point the configuration at an existing binary:
~~~cue
tool: path: "/opt/homebrew/bin/sourcery"
~~~`,
		extLinks: []HttpLink{"https://github.com/krzysztofzablocki/Sourcery/releases"},
	}

	templatesNotFoundIssue = &Issue{
		id: TemplatesNotFoundId,
		mdMsg: `
# No templates were found for this target

The target has no ` + "`.sourcery.yml`" + `, so templates are discovered among its input
files. None of them ends in ` + "`.stencil`" + ` or ` + "`.swifttemplate`" + `.

## Things you can try:
- Add a template next to your sources, e.g. ` + "`Templates/AutoEquatable.stencil`" + `
- Or add a ` + "`.sourcery.yml`" + ` to the target directory that lists its templates`,
		docLinks: []HttpLink{sourceryDocs},
	}

	configFileNotFoundIssue = &Issue{
		id: ConfigFileNotFoundId,
		mdMsg: `
# No .sourcery.yml in the target directory

This is only a warning. Sources, templates and output are derived from the
target's input files instead. Extra flags can be put one per line in a
` + "`.sourcery-args`" + ` file:
~~~
--disableCache
--args module=${TARGET_DIR}
~~~`,
		docLinks: []HttpLink{sourceryDocs},
	}

	argFileInvalidIssue = &Issue{
		id: ArgFileInvalidId,
		mdMsg: `
# The .sourcery-args file could not be read

It exists but is not readable UTF-8 text, so it was ignored and generation
continues without extra arguments.

## Things you can try:
- Re-save the file as UTF-8
- Check its permissions`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# The target manifest could not be loaded

Manifests may be written as JSON, YAML, TOML or CUE and must contain at least a
` + "`name`" + ` and a ` + "`directory`" + `.

## Example manifest:
~~~yaml
name: App
directory: Sources/App
input_files:
  - Models/User.swift
  - Templates/AutoEquatable.stencil
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# The configuration file could not be loaded

## Things you can try:
- Print the effective configuration:
~~~
$ sourcery-build config show
~~~

- Write a fresh default configuration:
~~~
$ sourcery-build config init
~~~`,
	}

	checksumMismatchIssue = &Issue{
		id: ChecksumMismatchId,
		mdMsg: `
# The downloaded bundle failed checksum verification

The archive was discarded. Either the download was corrupted or the configured
` + "`tool.checksum`" + ` does not belong to ` + "`tool.bundle_url`" + `.

## Things you can try:
- Retry the install
- Compare the checksum with the one published on the release page`,
		extLinks: []HttpLink{"https://github.com/krzysztofzablocki/Sourcery/releases"},
	}

	hostNotSupportedIssue = &Issue{
		id: HostNotSupportedId,
		mdMsg: `
# The release bundle has no binary for this host

The artifact bundle lists the platforms it supports and yours is not among
them.

## Things you can try:
- Build sourcery from source and set ` + "`tool.path`" + `
- Use a bundle URL that ships a binary for your platform`,
	}

	generationFailedIssue = &Issue{
		id: GenerationFailedId,
		mdMsg: `
# Code generation failed

The sourcery process exited with an error. Its own output above usually names
the template or source file at fault.

## Things you can try:
- Inspect the exact invocation:
~~~
$ sourcery-build plan
~~~

- Re-run with ` + "`--verbose`" + ` for debug logs`,
		docLinks: []HttpLink{sourceryDocs},
	}

	issues = map[Id]*Issue{
		toolNotFoundIssue.Id():       toolNotFoundIssue,
		templatesNotFoundIssue.Id():  templatesNotFoundIssue,
		configFileNotFoundIssue.Id(): configFileNotFoundIssue,
		argFileInvalidIssue.Id():     argFileInvalidIssue,
		manifestParseErrorIssue.Id(): manifestParseErrorIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		checksumMismatchIssue.Id():   checksumMismatchIssue,
		hostNotSupportedIssue.Id():   hostNotSupportedIssue,
		generationFailedIssue.Id():   generationFailedIssue,
	}
)

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

// Render renders the issue as terminal Markdown with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
