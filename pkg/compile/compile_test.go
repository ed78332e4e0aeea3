package compile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfiguration builds a run writing into its own temp output directory.
func testConfiguration(t *testing.T, root string) Configuration {
	t.Helper()
	cfg := DefaultConfiguration(root)
	cfg.Output = filepath.Join(t.TempDir(), "out.md")
	cfg.Classifier = fakeClassifier{guess: EncodingGuess{Name: "UTF-8", Confidence: 100}}
	return cfg
}

func TestRunBasicMarkdownScenario(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root, map[string]string{
		"a.py": "aaaa aaaa\n",
		"c.py": "cccc cccc\n",
	})
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.bin"), []byte{0x00, 0x01, 0x02}, 0o644))

	cfg := testConfiguration(t, root)
	cfg.LimitBytes = 1_000_000

	summary, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesIncluded)
	assert.Equal(t, 1, summary.SkippedBinary)
	assert.Zero(t, summary.SkippedErrors)
	require.Len(t, summary.Chunks, 1)

	out, err := os.ReadFile(summary.Chunks[0].Path)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "ASCII Tree of the Project Directory")
	assert.Contains(t, text, "=== Start of a.py ===")
	assert.Contains(t, text, "=== Start of c.py ===")
	assert.NotContains(t, text, "=== Start of b.bin ===", "binary content never inlined")
	assert.Contains(t, text, "├── a.py", "binary file still visible in the tree")
}

func TestRunIncludeExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root, map[string]string{
		"keep.py":   "python\n",
		"skip.txt":  "text\n",
		"other.PY":  "python too\n",
		"README.md": "docs\n",
	})

	cfg := testConfiguration(t, root)
	cfg.IncludeExtensions = []string{".py"}

	summary, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.FilesIncluded)

	out, err := os.ReadFile(summary.Chunks[0].Path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "=== Start of keep.py ===")
	assert.Contains(t, string(out), "=== Start of other.PY ===")
	assert.NotContains(t, string(out), "=== Start of skip.txt ===")
}

func TestRunSplitsIntoSequentialParts(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root, map[string]string{
		"aa.txt": strings.Repeat("alpha ", 200),
		"bb.txt": strings.Repeat("bravo ", 200),
	})

	cfg := testConfiguration(t, root)
	// Big enough for either file's section plus overhead, too small for both.
	cfg.LimitBytes = 2600

	summary, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, summary.Chunks, 2)
	assert.Zero(t, summary.OversizeChunks)

	base := strings.TrimSuffix(cfg.Output, ".md")
	assert.Equal(t, base+".md", summary.Chunks[0].Path)
	assert.Equal(t, base+"-part2.md", summary.Chunks[1].Path)

	first, err := os.ReadFile(summary.Chunks[0].Path)
	require.NoError(t, err)
	second, err := os.ReadFile(summary.Chunks[1].Path)
	require.NoError(t, err)

	assert.Contains(t, string(first), "=== Start of aa.txt ===")
	assert.NotContains(t, string(first), "=== Start of bb.txt ===")
	assert.Contains(t, string(second), "=== Start of bb.txt ===")
	assert.LessOrEqual(t, summary.Chunks[0].Bytes, int64(2600))
	assert.LessOrEqual(t, summary.Chunks[1].Bytes, int64(2600))

	assert.Contains(t, string(first), "ASCII Tree")
	assert.NotContains(t, string(second), "ASCII Tree", "tree only in the first part")
}

func TestRunOversizeFileIsolatedWithWarningCount(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root, map[string]string{
		"small.txt": "tiny\n",
		"huge.txt":  strings.Repeat("payload ", 1000),
	})

	cfg := testConfiguration(t, root)
	cfg.LimitBytes = 2000

	summary, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesIncluded, "oversize file emitted, not dropped")
	assert.Equal(t, 1, summary.OversizeChunks)
}

func TestRunDeterministicByteIdentical(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root, map[string]string{
		"a.go":     "package a\n",
		"z/b.go":   "package b\n",
		"z/c.go":   "package c\n",
		"mid.html": "<b>x</b>\n",
	})

	run := func(outDir string) map[string][]byte {
		cfg := testConfiguration(t, root)
		cfg.Output = filepath.Join(outDir, "out.md")
		cfg.LimitBytes = 1200

		summary, err := Run(context.Background(), cfg, nil)
		require.NoError(t, err)

		outputs := make(map[string][]byte, len(summary.Chunks))
		for _, chunk := range summary.Chunks {
			data, err := os.ReadFile(chunk.Path)
			require.NoError(t, err)
			outputs[filepath.Base(chunk.Path)] = data
		}
		return outputs
	}

	assert.Equal(t, run(t.TempDir()), run(t.TempDir()))
}

func TestRunJSONRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root, map[string]string{
		"a.py": "print(\"hello\")\n",
		"b.py": "value = '<&>'\n",
	})

	cfg := testConfiguration(t, root)
	cfg.Format = FormatJSON
	cfg.Output = filepath.Join(t.TempDir(), "out.json")

	summary, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.Len(t, summary.Chunks, 1)
	assert.True(t, strings.HasSuffix(summary.Chunks[0].Path, ".json"))

	data, err := os.ReadFile(summary.Chunks[0].Path)
	require.NoError(t, err)

	var doc struct {
		AsciiTree []string `json:"ascii_tree"`
		Files     []struct {
			Path     string          `json:"path"`
			Metadata json.RawMessage `json:"metadata"`
			Content  string          `json:"content"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	require.Len(t, doc.Files, 2)
	assert.Equal(t, "a.py", doc.Files[0].Path)
	assert.Equal(t, "print(\"hello\")\n", doc.Files[0].Content)
	assert.Equal(t, "b.py", doc.Files[1].Path)
	assert.Equal(t, "value = '<&>'\n", doc.Files[1].Content)
	assert.NotEmpty(t, doc.Files[0].Metadata)
	assert.NotEmpty(t, doc.AsciiTree)
}

func TestRunNoMetadataToggle(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root, map[string]string{"a.txt": "x\n"})

	cfg := testConfiguration(t, root)
	cfg.IncludeMetadata = false

	summary, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	out, err := os.ReadFile(summary.Chunks[0].Path)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "File Size:")
}

func TestRunEmptyMatchSetIsFatal(t *testing.T) {
	cfg := testConfiguration(t, t.TempDir())
	_, err := Run(context.Background(), cfg, nil)
	require.ErrorIs(t, err, ErrNoFiles)
}

func TestRunAllCandidatesSkippedIsFatal(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "only.bin"), []byte{0x00, 0x01}, 0o644))

	cfg := testConfiguration(t, root)
	_, err := Run(context.Background(), cfg, nil)
	require.ErrorIs(t, err, ErrNoFiles)
}

func TestRunConfigErrorBeforeIO(t *testing.T) {
	cfg := testConfiguration(t, t.TempDir())
	cfg.Format = "pdf"

	_, err := Run(context.Background(), cfg, nil)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestRunCancelledContextLeavesNoOutput(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root, map[string]string{"a.txt": "x\n", "b.txt": "y\n"})

	cfg := testConfiguration(t, root)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg, nil)
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(statErr), "no output document after cancellation")
}

func TestRunObserverSeesEveryCandidateInOrder(t *testing.T) {
	root := t.TempDir()
	writeTestTree(t, root, map[string]string{
		"a.txt": "a\n",
		"c.txt": "c\n",
	})
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.bin"), []byte{0x00}, 0o644))

	obs := &recordingObserver{}
	cfg := testConfiguration(t, root)
	cfg.Observer = obs

	_, err := Run(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.bin", "c.txt"}, obs.paths)
	assert.Equal(t, []Outcome{OutcomeIncluded, OutcomeSkippedBinary, OutcomeIncluded}, obs.outcomes)
}

func TestChunkPathNaming(t *testing.T) {
	assert.Equal(t, "out.md", ChunkPath("out.md", FormatMarkdown, 1))
	assert.Equal(t, "out-part2.md", ChunkPath("out.md", FormatMarkdown, 2))
	assert.Equal(t, "out-part3.md", ChunkPath("out.md", FormatMarkdown, 3))
	assert.Equal(t, "report.json", ChunkPath("report.txt", FormatJSON, 1), "extension follows the format")
	assert.Equal(t, "dir/out.html", ChunkPath("dir/out.md", FormatHTML, 1))
}
