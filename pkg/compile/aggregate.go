package compile

import (
	"sort"

	"go.uber.org/zap"
)

// Aggregator restores the walker's traversal order over out-of-order worker
// results and splits the ordered records into size-bounded chunks.
type Aggregator struct {
	limit    int64 // Serialized bytes per chunk; 0 = unlimited.
	renderer Renderer
	observer Observer
	logger   *zap.Logger
}

// NewAggregator builds an aggregator. The renderer supplies the exact
// serialized-size accounting for its format; observer may be nil.
func NewAggregator(limit int64, renderer Renderer, observer Observer, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{limit: limit, renderer: renderer, observer: observer, logger: logger}
}

// Order sorts worker results back into traversal order and separates records
// from skip markers. The observer is notified here, on the calling
// goroutine, once per candidate in traversal order.
func (a *Aggregator) Order(results []ingestResult) ([]*FileRecord, []*SkippedMarker) {
	sort.Slice(results, func(i, j int) bool {
		return resultIndex(results[i]) < resultIndex(results[j])
	})

	var records []*FileRecord
	var skipped []*SkippedMarker
	for _, res := range results {
		switch {
		case res.record != nil:
			records = append(records, res.record)
			a.notify(res.record.Path, OutcomeIncluded)
		case res.skipped != nil:
			skipped = append(skipped, res.skipped)
			if res.skipped.Reason == SkipBinary {
				a.notify(res.skipped.Path, OutcomeSkippedBinary)
			} else {
				a.notify(res.skipped.Path, OutcomeSkippedError)
			}
		}
	}
	return records, skipped
}

// Chunk packs ordered records into sequential chunks whose serialized size
// stays within the limit. A record that fits exactly at the limit stays in
// the current chunk. A record too large for an empty chunk is isolated in
// its own oversized chunk and surfaced as a warning, never dropped. The
// directory tree is attached to chunk 1 only.
func (a *Aggregator) Chunk(records []*FileRecord, tree *TreeNode) []*OutputChunk {
	first := &OutputChunk{Number: 1, Tree: tree}
	chunks := []*OutputChunk{first}

	current := first
	currentSize := int64(a.renderer.Overhead(tree))

	for _, rec := range records {
		sectionSize := int64(a.renderer.SectionSize(rec))

		if a.limit > 0 && currentSize+sectionSize > a.limit {
			if len(current.Records) > 0 || current.Tree != nil {
				current = a.nextChunk(&chunks)
				currentSize = int64(a.renderer.Overhead(nil))
			}
			if currentSize+sectionSize > a.limit {
				// Even alone the record exceeds the limit; it is still
				// emitted, isolated in a chunk of its own.
				current.Records = append(current.Records, rec)
				current.Oversize = true
				a.logger.Warn("Single file exceeds the chunk size limit, emitting oversized chunk",
					zap.String("file", rec.Path),
					zap.Int64("sectionBytes", sectionSize),
					zap.Int64("limitBytes", a.limit))
				current = a.nextChunk(&chunks)
				currentSize = int64(a.renderer.Overhead(nil))
				continue
			}
		}

		current.Records = append(current.Records, rec)
		currentSize += sectionSize
	}

	// Trailing empty chunk appears when the last record sealed its chunk.
	if last := chunks[len(chunks)-1]; len(last.Records) == 0 && last.Number > 1 {
		chunks = chunks[:len(chunks)-1]
	}
	return chunks
}

func (a *Aggregator) nextChunk(chunks *[]*OutputChunk) *OutputChunk {
	next := &OutputChunk{Number: len(*chunks) + 1}
	*chunks = append(*chunks, next)
	return next
}

func (a *Aggregator) notify(path string, outcome Outcome) {
	if a.observer != nil {
		a.observer.OnFileProcessed(path, outcome)
	}
}

func resultIndex(res ingestResult) int {
	if res.record != nil {
		return res.record.Index
	}
	return res.skipped.Index
}
