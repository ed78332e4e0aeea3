package compile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClassifier forces a fixed encoding guess; binary detection stays on
// the NUL-byte rule so fixtures control it through their content.
type fakeClassifier struct {
	guess EncodingGuess
}

func (f fakeClassifier) IsBinary(sample []byte) bool {
	return bytes.IndexByte(sample, 0) >= 0
}

func (f fakeClassifier) DetectEncoding([]byte) EncodingGuess {
	return f.guess
}

func newTestIngestor(t *testing.T, root string, maxKB int) *Ingestor {
	t.Helper()
	counter, err := newTokenCounter(TokenizerWords)
	require.NoError(t, err)
	return NewIngestor(root, fakeClassifier{guess: EncodingGuess{Name: "UTF-8", Confidence: 100}}, counter, maxKB, nil)
}

func TestIngestProducesRecordWithMetadata(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root, map[string]string{"src/a.py": "print('one two three')\n"})

	res := newTestIngestor(t, root, 0).Ingest("src/a.py", 4)

	require.Nil(t, res.skipped)
	require.NotNil(t, res.record)
	rec := res.record
	assert.Equal(t, "src/a.py", rec.Path)
	assert.Equal(t, 4, rec.Index)
	assert.Equal(t, "print('one two three')\n", rec.Content)
	assert.Equal(t, "UTF-8", rec.Encoding)
	assert.Equal(t, 2, rec.TokenCount, "whitespace-delimited count")
	assert.Equal(t, int64(23), rec.Meta.SizeBytes)
	assert.False(t, rec.Meta.Modified.IsZero())
	assert.NotEmpty(t, rec.Meta.Permissions)
	assert.NotEmpty(t, rec.Meta.Owner, "owner is a name, uid, or the unavailable sentinel")
	assert.NotEmpty(t, rec.Meta.Created)
}

func TestIngestBinaryFileSkipped(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.bin"), []byte{0x00, 0x01, 0x02, 0x03}, 0o644))

	res := newTestIngestor(t, root, 0).Ingest("b.bin", 0)

	require.Nil(t, res.record)
	require.NotNil(t, res.skipped)
	assert.Equal(t, SkipBinary, res.skipped.Reason)
}

func TestIngestMissingFileSkippedNotFatal(t *testing.T) {
	res := newTestIngestor(t, t.TempDir(), 0).Ingest("vanished.txt", 0)

	require.NotNil(t, res.skipped)
	assert.Equal(t, SkipError, res.skipped.Reason)
	assert.NotEmpty(t, res.skipped.Detail)
}

func TestIngestOversizeInputSkipped(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root, map[string]string{"big.txt": string(make([]byte, 3000))})

	res := newTestIngestor(t, root, 2).Ingest("big.txt", 0)

	require.NotNil(t, res.skipped)
	assert.Equal(t, SkipOversize, res.skipped.Reason)
}

func TestIngestUnreadableFileSkipped(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked.txt")
	require.NoError(t, os.WriteFile(locked, []byte("secret"), 0o644))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	res := newTestIngestor(t, root, 0).Ingest("locked.txt", 0)

	require.NotNil(t, res.skipped)
	assert.Equal(t, SkipError, res.skipped.Reason)
	assert.Contains(t, res.skipped.Detail, "locked.txt")
}

func TestIngestLossyDecodeKeepsFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "mixed.txt"), []byte{'o', 'k', 0xFF, '!'}, 0o644))

	res := newTestIngestor(t, root, 0).Ingest("mixed.txt", 0)

	require.NotNil(t, res.record)
	assert.Equal(t, "ok�!", res.record.Content)
}
