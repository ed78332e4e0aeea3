package compile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ChunkPath names the output document for one chunk. The first chunk keeps
// the base name; later chunks get a sequential "-partN" suffix. The
// extension is normalized to match the output format.
func ChunkPath(output string, format Format, number int) string {
	base := strings.TrimSuffix(output, filepath.Ext(output))
	if number <= 1 {
		return base + format.Extension()
	}
	return fmt.Sprintf("%s-part%d%s", base, number, format.Extension())
}

// writeChunks renders and writes every chunk in order. On cancellation or
// error, documents written so far are removed so an aborted run never leaves
// a misleadingly complete output behind.
func writeChunks(ctx context.Context, chunks []*OutputChunk, renderer Renderer, cfg *Configuration, logger *zap.Logger) ([]ChunkInfo, error) {
	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	written := make([]string, 0, len(chunks))
	infos := make([]ChunkInfo, 0, len(chunks))
	cleanup := func() {
		for _, path := range written {
			if err := os.Remove(path); err != nil {
				logger.Warn("Failed to remove partial output", zap.String("file", path), zap.Error(err))
			}
		}
	}

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			cleanup()
			return nil, err
		}

		data, err := renderer.Render(chunk)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to render chunk %d: %w", chunk.Number, err)
		}

		path := ChunkPath(cfg.Output, cfg.Format, chunk.Number)
		if err := os.WriteFile(path, data, 0644); err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)

		tokens := 0
		for _, rec := range chunk.Records {
			tokens += rec.TokenCount
		}
		infos = append(infos, ChunkInfo{
			Path:   path,
			Files:  len(chunk.Records),
			Bytes:  int64(len(data)),
			Tokens: tokens,
		})
		logger.Debug("Wrote output chunk",
			zap.String("file", path),
			zap.Int("files", len(chunk.Records)),
			zap.Int("bytes", len(data)))
	}

	return infos, nil
}
