// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Id identifies a catalog entry. The zero Id has no entry.
type Id int

const (
	CoreNotFoundId Id = iota + 1
	CoreParseErrorId
	ReferenceNotFoundId
	MissingFieldId
	ToolRequiredId
	InvalidParameterValueId
	InvalidExpressionId
	FileNotFoundId
	DependencyNotSatisfiedId
	DependencyCycleId
	ConfigLoadFailedId
	LockFileInvalidId
)

// Issue is a catalog entry: Markdown help for one class of failure plus
// optional reference links.
type Issue struct {
	id    Id
	mdMsg string
	links []string
}

func (i *Issue) Id() Id { return i.id }

// Markdown returns the unrendered help text.
func (i *Issue) Markdown() string { return i.mdMsg }

// Links returns a copy of the reference links.
func (i *Issue) Links() []string { return slices.Clone(i.links) }

// Render renders the help text and links with glamour. style is a glamour
// standard style such as "auto", "dark" or "notty".
func (i *Issue) Render(style string) (string, error) {
	var md strings.Builder
	md.WriteString(i.mdMsg)
	if len(i.links) > 0 {
		md.WriteString("\n\n## References\n")
		for _, link := range i.links {
			fmt.Fprintf(&md, "- <%s>\n", link)
		}
	}
	return render(md.String(), style)
}

var (
	render = glamour.Render

	capi2Link = "https://fusesoc.readthedocs.io/en/stable/ref/capi2.html"

	coreNotFoundIssue = &Issue{
		id: CoreNotFoundId,
		mdMsg: `
# Core not found!

No core in the configured libraries matches the name you asked for.

## Search locations (in order of precedence):
1. ` + "`cores_root`" + ` entries from your config file
2. Directories listed in ` + "`CORESOLVE_CORES`" + `
3. Locations of the configured ` + "`libraries`" + `

## Things you can try:
- List every discovered core:
~~~
$ coresolve list
~~~

- Check the spelling of the name, including the vendor and library parts
- Add the directory holding your core to the search path:
~~~
$ CORESOLVE_CORES=/path/to/cores coresolve core info acme:ip:uart
~~~`,
		links: []string{capi2Link},
	}

	coreParseErrorIssue = &Issue{
		id: CoreParseErrorId,
		mdMsg: `
# Failed to parse core file!

The core description file is not a valid CAPI2 document.

## Common issues:
- The file is not valid YAML (bad indentation, tabs, unclosed quotes)
- The top level is not a mapping
- A section contains a key that does not belong there
- A flag expression has unbalanced parentheses
- A target references a fileset that is not declared

## Example of a valid core:
~~~yaml
CAPI=2:
name: acme:ip:uart:1.0
filesets:
  rtl:
    files: [rtl/uart.v]
    file_type: verilogSource
targets:
  default:
    filesets: [rtl]
    toplevel: uart
~~~`,
		links: []string{capi2Link},
	}

	referenceNotFoundIssue = &Issue{
		id: ReferenceNotFoundId,
		mdMsg: `
# Reference not found!

A target names a parameter, script or generator instance that the core never declares.

## Things you can try:
- Declare the missing entry in the matching top level section
  (` + "`parameters`, `scripts` or `generate`" + `)
- Remove the name from the target, or guard it with a flag expression:
~~~yaml
targets:
  sim:
    parameters: [tool_icarus ? (vcd_dump)]
~~~`,
	}

	missingFieldIssue = &Issue{
		id: MissingFieldId,
		mdMsg: `
# Field not defined for target!

The selected target does not declare the field that was requested.

## Things you can try:
- Check the target name passed with ` + "`--target`" + `
- Add the field to the target, e.g.:
~~~yaml
targets:
  default:
    toplevel: top
~~~`,
	}

	toolRequiredIssue = &Issue{
		id: ToolRequiredId,
		mdMsg: `
# No tool selected!

Tool options can only be resolved once a tool is known.

## Things you can try:
- Pass the tool explicitly:
~~~
$ coresolve core tool-options --tool icarus acme:ip:uart
~~~
- Or set a ` + "`default_tool`" + ` on the target`,
	}

	invalidParameterValueIssue = &Issue{
		id: InvalidParameterValueId,
		mdMsg: `
# Invalid parameter value!

A parameter default does not match its declared datatype.

## Accepted values per datatype:
- **int**: decimal, ` + "`0x`" + ` hexadecimal or ` + "`0`" + ` octal integers
- **bool**: true or false
- **real**: floating point numbers
- **str** and **file**: any text`,
	}

	invalidExpressionIssue = &Issue{
		id: InvalidExpressionId,
		mdMsg: `
# Invalid flag expression!

A list entry uses the conditional form but is malformed.

## The accepted form is:
~~~
[!]flag ? ( item item ... )
~~~

- Every ` + "`?`" + ` must follow a flag name and be followed by a parenthesized group
- Groups may nest, and each closing parenthesis must match an opening one`,
	}

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# File not found!

A file listed in the core could not be found while exporting.

## Things you can try:
- Check that the path is relative to the directory containing the core file
- Check that generated files exist before exporting
- Run the export with ` + "`--verbose`" + ` to see every copied file`,
	}

	dependencyNotSatisfiedIssue = &Issue{
		id: DependencyNotSatisfiedId,
		mdMsg: `
# Dependency not satisfied!

No discovered core provides a version matching the dependency constraint.

## Things you can try:
- List the versions that are available:
~~~
$ coresolve list
~~~
- Relax the constraint, e.g. ` + "`>=acme:ip:fifo:1.0`" + ` instead of ` + "`=acme:ip:fifo:1.2`" + `
- Remove a stale entry from ` + "`coresolve.lock`" + ` and lock again`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

The selected cores depend on each other in a loop, so no build order exists.

## Things you can try:
- Inspect the dependency tree:
~~~
$ coresolve deps acme:soc:top
~~~
- Move the shared files into a separate core that both can depend on`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the expected schema.

## Things you can try:
- Show where the configuration is looked up:
~~~
$ coresolve config path
~~~
- Print the effective configuration:
~~~
$ coresolve config show
~~~
- Check that every ` + "`libraries`" + ` entry has a ` + "`name`" + ` and a ` + "`location`",
	}

	lockFileInvalidIssue = &Issue{
		id: LockFileInvalidId,
		mdMsg: `
# Invalid lock file!

The ` + "`coresolve.lock`" + ` file could not be decoded.

## Things you can try:
- Regenerate it:
~~~
$ coresolve lock acme:soc:top
~~~`,
	}

	issues = map[Id]*Issue{
		coreNotFoundIssue.Id():           coreNotFoundIssue,
		coreParseErrorIssue.Id():         coreParseErrorIssue,
		referenceNotFoundIssue.Id():      referenceNotFoundIssue,
		missingFieldIssue.Id():           missingFieldIssue,
		toolRequiredIssue.Id():           toolRequiredIssue,
		invalidParameterValueIssue.Id():  invalidParameterValueIssue,
		invalidExpressionIssue.Id():      invalidExpressionIssue,
		fileNotFoundIssue.Id():           fileNotFoundIssue,
		dependencyNotSatisfiedIssue.Id(): dependencyNotSatisfiedIssue,
		dependencyCycleIssue.Id():        dependencyCycleIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		lockFileInvalidIssue.Id():        lockFileInvalidIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int { return int(a.id - b.id) })
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
