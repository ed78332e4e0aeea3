package compile

import (
	"fmt"
	"strings"
	"time"
)

// RenderOptions carries the presentation knobs shared by all formats.
type RenderOptions struct {
	StartMarker     string
	EndMarker       string
	IncludeMetadata bool
}

// Renderer serializes chunks into one output format. SectionSize and
// Overhead give the aggregator exact (or safely overestimated) byte
// accounting: Render never produces more than
// Overhead(chunk.Tree) + sum of SectionSize over the chunk's records.
type Renderer interface {
	Render(chunk *OutputChunk) ([]byte, error)
	SectionSize(rec *FileRecord) int
	Overhead(tree *TreeNode) int
}

// NewRenderer returns the renderer for a format.
func NewRenderer(format Format, opts RenderOptions) (Renderer, error) {
	if opts.StartMarker == "" {
		opts.StartMarker = DefaultStartMarker
	}
	if opts.EndMarker == "" {
		opts.EndMarker = DefaultEndMarker
	}
	switch format {
	case FormatMarkdown:
		return newMarkdownRenderer(opts), nil
	case FormatHTML:
		return newHTMLRenderer(opts), nil
	case FormatJSON:
		return newJSONRenderer(opts), nil
	default:
		return nil, &ConfigError{Field: "format", Reason: fmt.Sprintf("unknown format %q", format)}
	}
}

// metadataLines renders the per-file metadata block shared by the textual
// formats, one "Key: value" line per field.
func metadataLines(meta Metadata, encoding string, tokens int) []string {
	return []string{
		fmt.Sprintf("File Size: %d bytes", meta.SizeBytes),
		fmt.Sprintf("Last Modified: %s", meta.Modified.Format(time.RFC3339)),
		fmt.Sprintf("Creation Time: %s", meta.Created),
		fmt.Sprintf("Permissions: %s", meta.Permissions),
		fmt.Sprintf("Owner: %s", meta.Owner),
		fmt.Sprintf("Encoding: %s", encoding),
		fmt.Sprintf("Tokens: %d", tokens),
	}
}

// markdownRenderer produces the textual format: explanation header, fenced
// ASCII tree on the first chunk, then marker-delimited file sections.
type markdownRenderer struct {
	opts        RenderOptions
	explanation string
}

func newMarkdownRenderer(opts RenderOptions) *markdownRenderer {
	var b strings.Builder
	b.WriteString("# Project Files Compilation\n\n")
	b.WriteString("This document contains the concatenated contents of project files.\n\n")
	b.WriteString("## Structure Explanation\n\n")
	b.WriteString("Each file's content is enclosed between markers indicating the start and end of the file:\n\n")
	fmt.Fprintf(&b, "- `%s relative/path/to/file %s`: beginning of a file's content.\n", opts.StartMarker, opts.StartMarker)
	fmt.Fprintf(&b, "- `%s relative/path/to/file %s`: end of a file's content.\n", opts.EndMarker, opts.EndMarker)
	if opts.IncludeMetadata {
		b.WriteString("\nEach section starts with a metadata block: ")
		b.WriteString("File Size, Last Modified, Creation Time, Permissions, Owner, Encoding, Tokens.\n")
	}
	b.WriteString("\n---\n")
	return &markdownRenderer{opts: opts, explanation: b.String()}
}

func (r *markdownRenderer) Render(chunk *OutputChunk) ([]byte, error) {
	var b strings.Builder
	b.WriteString(r.explanation)
	b.WriteString(r.treeBlock(chunk.Tree))
	for _, rec := range chunk.Records {
		b.WriteString(r.section(rec))
	}
	return []byte(b.String()), nil
}

func (r *markdownRenderer) SectionSize(rec *FileRecord) int {
	return len(r.section(rec))
}

func (r *markdownRenderer) Overhead(tree *TreeNode) int {
	return len(r.explanation) + len(r.treeBlock(tree))
}

func (r *markdownRenderer) treeBlock(tree *TreeNode) string {
	if tree == nil {
		return ""
	}
	return "\n## ASCII Tree of the Project Directory\n\n```\n" + RenderTree(tree) + "```\n"
}

func (r *markdownRenderer) section(rec *FileRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %s %s\n", r.opts.StartMarker, rec.Path, r.opts.StartMarker)
	if r.opts.IncludeMetadata {
		b.WriteString(strings.Join(metadataLines(rec.Meta, rec.Encoding, rec.TokenCount), "\n"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(rec.Content)
	if !strings.HasSuffix(rec.Content, "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s %s %s\n", r.opts.EndMarker, rec.Path, r.opts.EndMarker)
	return b.String()
}
