package mcpserver

// NameFormatContract describes the canonical note filename scheme that
// MCP consumers must follow when referring to or creating notes.
const NameFormatContract = `# Ansuz Note Name Contract

Every note is a Markdown file in a single flat directory. The filename is
the only place a note's metadata lives; there is no frontmatter and no
sidecar database of record.

## Structure

` + "```" + `
<id>--<title-slug>__<tag>_<tag>.md
` + "```" + `

Example:

` + "```" + `
20230504T162825--configuring-neovim__editor_tools.md
` + "```" + `

which decodes to id ` + "`" + `20230504T162825` + "`" + `, title ` + "`" + `configuring neovim` + "`" + `,
tags ` + "`" + `editor` + "`" + ` and ` + "`" + `tools` + "`" + `.

## Rules

1. **The id is the creation instant**, formatted ` + "`" + `YYYYMMDDThhmmss` + "`" + ` in UTC
   at second precision. It never changes for the life of the note and is
   unique within the vault.
2. **The title slug** follows ` + "`" + `--` + "`" + `: lowercase words over
   ` + "`" + `a-z 0-9 æ ø å` + "`" + ` joined by single hyphens. It never contains
   underscores.
3. **The tag block** is optional and follows ` + "`" + `__` + "`" + `: tag slugs over
   ` + "`" + `a-z 0-9 æ ø å` + "`" + ` joined by single underscores, deduplicated and
   sorted ascending. Tag slugs never contain hyphens. A note without tags
   has no tag block at all.
4. **Never rename note files by hand.** Use the ` + "`" + `toggle_tag` + "`" + ` and
   ` + "`" + `retitle_note` + "`" + ` tools; they rename atomically, refuse collisions,
   carry the editor buffer across, and keep the search index current.
5. **Refer to notes by their full filename**, extension included. Links
   inside note bodies use standard Markdown:
   ` + "`" + `[configuring neovim](20230504T162825--configuring-neovim__editor_tools.md)` + "`" + `
   (the ` + "`" + `link_to_note` + "`" + ` tool builds this text).
6. **Bodies are plain Markdown.** The body is opaque to the metadata
   layer; a new note starts with a level-one heading of its title.
7. **Files that do not match the scheme are not notes.** They are left
   untouched and never appear in listings, tag menus, or search.
`
