// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the note vault to editor hosts via stdio transport.
//
// Tool calls arrive with fully resolved inputs; any interactive picking
// or prompting happens on the host side. The toggle_tag and retitle_note
// tools accept the host's unsaved buffer content and return the content
// to re-display, so open editor work survives the rename.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/vault"
)

// Server wraps the MCP server with the note vault tools.
type Server struct {
	mcp    *server.MCPServer
	vault  *vault.Service
	store  storage.Provider
	db     *index.DB
	logger *slog.Logger
}

// New creates a new MCP server with all vault tools registered.
func New(v *vault.Service, store storage.Provider, db *index.DB, logger *slog.Logger) *Server {
	s := &Server{vault: v, store: store, db: db, logger: logger}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("find_notes",
		mcp.WithDescription("List every note in the vault, newest first, with its "+
			"filename, identifier, title, and tags."),
	), s.findNotes)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through note bodies and titles. "+
			"The index is re-synced with the vault directory before querying."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List tags in use across the vault. With a current note "+
			"file, returns toggle choices with the note's own tags marked enabled."),
		mcp.WithString("file", mcp.Description("Optional filename of the current note")),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("toggle_tag",
		mcp.WithDescription("Add or remove a tag on a note by renaming its file. "+
			"Returns the new filename and the buffer content to re-display. Pass the "+
			"editor's unsaved content so open edits survive the rename. Filenames follow "+
			"the ansuz://name-format contract."),
		mcp.WithString("file", mcp.Required(), mcp.Description("Filename of the note to modify")),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Tag to toggle")),
		mcp.WithString("unsaved", mcp.Description("Unsaved buffer content, when the editor holds edits not yet on disk")),
	), s.toggleTag)

	s.mcp.AddTool(mcp.NewTool("retitle_note",
		mcp.WithDescription("Change a note's title by renaming its file; the identifier "+
			"and tags are preserved. Returns the new filename and the buffer content to "+
			"re-display. Pass the editor's unsaved content so open edits survive the rename."),
		mcp.WithString("file", mcp.Required(), mcp.Description("Filename of the note to retitle")),
		mcp.WithString("title", mcp.Required(), mcp.Description("New title, free text")),
		mcp.WithString("unsaved", mcp.Description("Unsaved buffer content, when the editor holds edits not yet on disk")),
	), s.retitleNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note from a title and optional tags. The "+
			"filename is generated per the note name contract (see the get_note_contract "+
			"tool or the ansuz://name-format resource); the body starts with a level-one "+
			"heading."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the new note, free text")),
		mcp.WithString("tags", mcp.Description("Optional space-separated tags")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("link_to_note",
		mcp.WithDescription("Build the Markdown link text for a note, for insertion "+
			"into another note's body."),
		mcp.WithString("file", mcp.Required(), mcp.Description("Filename of the link target")),
	), s.linkToNote)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find the notes whose bodies link to the given note. "+
			"The index is re-synced with the vault directory before querying."),
		mcp.WithString("file", mcp.Required(), mcp.Description("Filename of the note to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a note."),
		mcp.WithString("file", mcp.Required(), mcp.Description("Filename of the note to read")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("get_note_contract",
		mcp.WithDescription("Returns the canonical note filename contract. Call this "+
			"before creating or renaming notes to ensure correct naming."),
	), s.getNoteContract)

	// Resource: note name contract.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://name-format", "Note Name Contract",
			mcp.WithResourceDescription("Canonical note filename scheme that encodes all note metadata."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNameFormatResource,
	)

	return s
}

// Serve runs the stdio transport until ctx is canceled or stdin closes.
// Stdout carries the protocol, so nothing else may write to it while the
// server runs.
func (s *Server) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcp)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// renameResult is the wire shape of toggle_tag and retitle_note responses.
type renameResult struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
	Content string `json:"content"`
	Dirty   bool   `json:"dirty"`
}

// wireBuffer carries the host's unsaved buffer content through the rename
// protocol and records what the editor should display afterwards.
type wireBuffer struct {
	unsaved []byte
	has     bool

	name    string
	content []byte
	dirty   bool
}

func (b *wireBuffer) Unsaved() ([]byte, bool) { return b.unsaved, b.has }

func (b *wireBuffer) Reload(name string, content []byte, dirty bool) error {
	b.name = name
	b.content = content
	b.dirty = dirty
	return nil
}

func (s *Server) findNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.vault.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := index.Sync(s.db, s.store, s.logger); err != nil {
		s.logger.Warn("search: sync failed", slog.String("error", err.Error()))
	}
	results, err := s.vault.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if file, err := req.RequireString("file"); err == nil && file != "" {
		choices, err := s.vault.TagChoices(ctx, file)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, _ := json.MarshalIndent(choices, "", "  ")
		return mcp.NewToolResultText(string(out)), nil
	}
	tags, err := s.vault.CollectTags(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(tags, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) toggleTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := req.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tag, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	buf := wireBufferFrom(req)

	newName, err := s.vault.ToggleTag(ctx, file, tag, buf)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return renameResponse(file, newName, buf), nil
}

func (s *Server) retitleNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := req.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	buf := wireBufferFrom(req)

	newName, err := s.vault.Retitle(ctx, file, title, buf)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return renameResponse(file, newName, buf), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var tags []string
	if raw, err := req.RequireString("tags"); err == nil {
		tags = strings.Fields(raw)
	}

	name, err := s.vault.Create(ctx, title, tags)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", name)), nil
}

func (s *Server) linkToNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := req.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := s.vault.LinkText(ctx, file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := req.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := index.Sync(s.db, s.store, s.logger); err != nil {
		s.logger.Warn("backlinks: sync failed", slog.String("error", err.Error()))
	}
	sources, err := s.vault.Backlinks(ctx, file)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(sources, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file, err := req.RequireString("file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(file)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", file)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) getNoteContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NameFormatContract), nil
}

func (s *Server) readNameFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://name-format",
			MIMEType: "text/markdown",
			Text:     NameFormatContract,
		},
	}, nil
}

// wireBufferFrom builds the rename buffer from the optional unsaved arg.
func wireBufferFrom(req mcp.CallToolRequest) *wireBuffer {
	buf := &wireBuffer{}
	if unsaved, err := req.RequireString("unsaved"); err == nil {
		buf.unsaved = []byte(unsaved)
		buf.has = true
	}
	return buf
}

func renameResponse(oldName, newName string, buf *wireBuffer) *mcp.CallToolResult {
	// A same-name rename never consults the buffer, so Reload has not
	// run; echo the host's own state back rather than blanking its view.
	content, dirty := buf.content, buf.dirty
	if buf.name == "" {
		content, dirty = buf.unsaved, buf.has
	}
	out, _ := json.MarshalIndent(renameResult{
		OldName: oldName,
		NewName: newName,
		Content: string(content),
		Dirty:   dirty,
	}, "", "  ")
	return mcp.NewToolResultText(string(out))
}
