package compile

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// classifySampleSize is how many leading bytes feed the binary heuristic.
const classifySampleSize = 1024

// ingestResult carries either a finished record or a skip marker for one
// candidate path, never both.
type ingestResult struct {
	record  *FileRecord
	skipped *SkippedMarker
}

// Ingestor reads one candidate file end-to-end: classification, decoding,
// metadata collection, token counting. It holds no mutable state and is
// shared by all workers.
type Ingestor struct {
	root         string
	classifier   TextClassifier
	counter      TokenCounter
	maxFileBytes int64
	logger       *zap.Logger
}

// NewIngestor builds an ingestor rooted at root. maxFileSizeKB of zero
// disables the per-file size cutoff.
func NewIngestor(root string, classifier TextClassifier, counter TokenCounter, maxFileSizeKB int, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{
		root:         root,
		classifier:   classifier,
		counter:      counter,
		maxFileBytes: int64(maxFileSizeKB) * 1024,
		logger:       logger,
	}
}

// Ingest processes the candidate at relPath. Every failure mode is local:
// unreadable, oversized, and binary files come back as SkippedMarkers, and a
// decode problem degrades to a lossy decode instead of an error.
func (ing *Ingestor) Ingest(relPath string, index int) ingestResult {
	absPath := filepath.Join(ing.root, filepath.FromSlash(relPath))

	info, err := os.Stat(absPath)
	if err != nil {
		return ing.skip(relPath, index, SkipError, err.Error())
	}
	if ing.maxFileBytes > 0 && info.Size() > ing.maxFileBytes {
		return ing.skip(relPath, index, SkipOversize, "")
	}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		accessErr := &AccessError{Path: relPath, Err: err}
		return ing.skip(relPath, index, SkipError, accessErr.Error())
	}

	sample := raw
	if len(sample) > classifySampleSize {
		sample = sample[:classifySampleSize]
	}
	if ing.classifier.IsBinary(sample) {
		return ing.skip(relPath, index, SkipBinary, "")
	}

	guess := ing.classifier.DetectEncoding(raw)
	content, encodingName, decodeErr := decodeContent(raw, guess, relPath)
	if decodeErr != nil {
		ing.logger.Warn("Decode failed, used lossy fallback",
			zap.String("file", relPath),
			zap.Error(decodeErr))
	}

	return ingestResult{record: &FileRecord{
		Path:       relPath,
		Index:      index,
		Content:    content,
		Encoding:   encodingName,
		TokenCount: ing.counter.Count(content),
		Meta:       collectMetadata(info),
	}}
}

func (ing *Ingestor) skip(relPath string, index int, reason SkipReason, detail string) ingestResult {
	ing.logger.Debug("Skipping file",
		zap.String("file", relPath),
		zap.String("reason", string(reason)),
		zap.String("detail", detail))
	return ingestResult{skipped: &SkippedMarker{
		Path:   relPath,
		Index:  index,
		Reason: reason,
		Detail: detail,
	}}
}

// collectMetadata gathers filesystem attributes. Fields that cannot be
// obtained on the current platform carry the MetaUnavailable sentinel.
func collectMetadata(info os.FileInfo) Metadata {
	return Metadata{
		SizeBytes:   info.Size(),
		Modified:    info.ModTime(),
		Created:     createdOf(info),
		Permissions: info.Mode().String(),
		Owner:       ownerOf(info),
	}
}
