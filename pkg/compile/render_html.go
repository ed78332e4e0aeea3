package compile

import (
	"fmt"
	"html"
	"strings"
)

// htmlRenderer produces a standalone HTML document. All dynamic content
// passes through html escaping, so arbitrary file content cannot break the
// document structure.
type htmlRenderer struct {
	opts   RenderOptions
	header string
}

const htmlFooter = "</body>\n</html>\n"

func newHTMLRenderer(opts RenderOptions) *htmlRenderer {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("    <meta charset=\"utf-8\">\n")
	b.WriteString("    <title>Project Files Compilation</title>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<h1>Project Files Compilation</h1>\n")
	b.WriteString("<p>This document contains the concatenated contents of project files.</p>\n")
	if opts.IncludeMetadata {
		b.WriteString("<p>Each file section lists its size, timestamps, permissions, owner, encoding, and token count.</p>\n")
	}
	b.WriteString("<hr>\n")
	return &htmlRenderer{opts: opts, header: b.String()}
}

func (r *htmlRenderer) Render(chunk *OutputChunk) ([]byte, error) {
	var b strings.Builder
	b.WriteString(r.header)
	b.WriteString(r.treeBlock(chunk.Tree))
	for _, rec := range chunk.Records {
		b.WriteString(r.section(rec))
	}
	b.WriteString(htmlFooter)
	return []byte(b.String()), nil
}

func (r *htmlRenderer) SectionSize(rec *FileRecord) int {
	return len(r.section(rec))
}

func (r *htmlRenderer) Overhead(tree *TreeNode) int {
	return len(r.header) + len(r.treeBlock(tree)) + len(htmlFooter)
}

func (r *htmlRenderer) treeBlock(tree *TreeNode) string {
	if tree == nil {
		return ""
	}
	return "<h2>ASCII Tree of the Project Directory</h2>\n<pre>\n" +
		html.EscapeString(RenderTree(tree)) + "</pre>\n"
}

func (r *htmlRenderer) section(rec *FileRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(rec.Path))
	if r.opts.IncludeMetadata {
		b.WriteString("<ul>\n")
		for _, line := range metadataLines(rec.Meta, rec.Encoding, rec.TokenCount) {
			fmt.Fprintf(&b, "    <li>%s</li>\n", html.EscapeString(line))
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("<pre>\n")
	b.WriteString(html.EscapeString(rec.Content))
	b.WriteString("\n</pre>\n")
	return b.String()
}
