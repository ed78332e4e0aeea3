package compile

import (
	"encoding/json"
	"strings"
	"time"
)

// jsonRenderer produces one JSON object per chunk. File objects are
// marshaled individually so the aggregator's size accounting matches the
// rendered bytes, and all string content is escaped by encoding/json.
type jsonRenderer struct {
	opts RenderOptions
}

type jsonMetadata struct {
	SizeBytes    int64  `json:"size_bytes"`
	LastModified string `json:"last_modified"`
	CreationTime string `json:"creation_time"`
	Permissions  string `json:"permissions"`
	Owner        string `json:"owner"`
	Encoding     string `json:"encoding"`
	Tokens       int    `json:"tokens"`
}

type jsonFile struct {
	Path     string        `json:"path"`
	Metadata *jsonMetadata `json:"metadata,omitempty"`
	Content  string        `json:"content"`
}

type jsonDocument struct {
	Description string            `json:"description"`
	AsciiTree   []string          `json:"ascii_tree,omitempty"`
	Files       []json.RawMessage `json:"files"`
}

func newJSONRenderer(opts RenderOptions) *jsonRenderer {
	return &jsonRenderer{opts: opts}
}

func (r *jsonRenderer) Render(chunk *OutputChunk) ([]byte, error) {
	doc := jsonDocument{
		Description: "Project Files Compilation",
		Files:       make([]json.RawMessage, 0, len(chunk.Records)),
	}
	if chunk.Tree != nil {
		doc.AsciiTree = treeLines(chunk.Tree)
	}
	for _, rec := range chunk.Records {
		section, err := r.fileObject(rec)
		if err != nil {
			return nil, &RenderError{Format: FormatJSON, Err: err}
		}
		doc.Files = append(doc.Files, section)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, &RenderError{Format: FormatJSON, Err: err}
	}
	return out, nil
}

// SectionSize includes one byte for the array separator, a deliberate
// overestimate for the first element so packed chunks never exceed the
// accounted size.
func (r *jsonRenderer) SectionSize(rec *FileRecord) int {
	section, err := r.fileObject(rec)
	if err != nil {
		return 0
	}
	return len(section) + 1
}

func (r *jsonRenderer) Overhead(tree *TreeNode) int {
	doc := jsonDocument{
		Description: "Project Files Compilation",
		Files:       []json.RawMessage{},
	}
	if tree != nil {
		doc.AsciiTree = treeLines(tree)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return 0
	}
	return len(out)
}

func (r *jsonRenderer) fileObject(rec *FileRecord) (json.RawMessage, error) {
	file := jsonFile{Path: rec.Path, Content: rec.Content}
	if r.opts.IncludeMetadata {
		file.Metadata = &jsonMetadata{
			SizeBytes:    rec.Meta.SizeBytes,
			LastModified: rec.Meta.Modified.Format(time.RFC3339),
			CreationTime: rec.Meta.Created,
			Permissions:  rec.Meta.Permissions,
			Owner:        rec.Meta.Owner,
			Encoding:     rec.Encoding,
			Tokens:       rec.TokenCount,
		}
	}
	return json.Marshal(file)
}

// treeLines flattens the rendered ASCII tree into one string per line for
// the JSON representation.
func treeLines(tree *TreeNode) []string {
	rendered := strings.TrimSuffix(RenderTree(tree), "\n")
	return strings.Split(rendered, "\n")
}
