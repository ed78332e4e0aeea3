package compile

import "time"

// MetaUnavailable marks a metadata field that could not be obtained on the
// current platform. It is a value, never an error.
const MetaUnavailable = "unavailable"

// Metadata holds the filesystem attributes collected for one ingested file.
type Metadata struct {
	SizeBytes   int64     // File size reported by the filesystem.
	Modified    time.Time // Last modification time.
	Created     string    // Best-effort creation time, or MetaUnavailable.
	Permissions string    // Permission string, e.g. "-rw-r--r--".
	Owner       string    // Best-effort owning user, or MetaUnavailable.
}

// FileRecord is the immutable result of ingesting one text file.
type FileRecord struct {
	Path       string // Relative path from the root, slash-separated.
	Index      int    // Position in the walker's traversal order.
	Content    string // Decoded file content.
	Encoding   string // Detected character encoding.
	TokenCount int    // Token count of Content per the configured counter.
	Meta       Metadata
}

// SkipReason classifies why a candidate file produced no FileRecord.
type SkipReason string

const (
	SkipBinary   SkipReason = "binary"
	SkipOversize SkipReason = "exceeds per-file size limit"
	SkipError    SkipReason = "read error"
)

// SkippedMarker notes a candidate path that was excluded from content output.
type SkippedMarker struct {
	Path   string
	Index  int
	Reason SkipReason
	Detail string // Specific error text for SkipError, empty otherwise.
}

// TreeNode is one entry of the directory tree built during the walk.
// Children are ordered lexicographically by name.
type TreeNode struct {
	Name         string
	IsDir        bool
	Pruned       bool // Directory excluded by filter rules, not descended into.
	Inaccessible bool // Directory whose listing was denied.
	Children     []*TreeNode
}

// OutputChunk is one size-bounded output document. Chunks are numbered from 1;
// the directory tree is attached to the first chunk only.
type OutputChunk struct {
	Number   int
	Records  []*FileRecord
	Tree     *TreeNode // Non-nil on chunk 1 only.
	Oversize bool      // True when a single record alone exceeds the limit.
}

// ChunkInfo describes one written output document for the run summary.
type ChunkInfo struct {
	Path   string
	Files  int
	Bytes  int64
	Tokens int
}

// Summary is returned to the caller after a run for display.
type Summary struct {
	FilesIncluded  int
	SkippedBinary  int
	SkippedErrors  int
	OversizeChunks int
	TotalTokens    int
	TotalBytes     int64
	Chunks         []ChunkInfo
	Elapsed        time.Duration
}

// Outcome is reported to an Observer for every candidate file.
type Outcome string

const (
	OutcomeIncluded      Outcome = "included"
	OutcomeSkippedBinary Outcome = "skipped-binary"
	OutcomeSkippedError  Outcome = "skipped-error"
)

// Observer receives per-file progress callbacks. Calls happen on the
// aggregation goroutine after each record is finalized, never concurrently.
type Observer interface {
	OnFileProcessed(path string, outcome Outcome)
}
