package compile

import (
	"fmt"
	"os"
	"strings"
)

// Format selects the output document format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// Extension returns the output file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatJSON:
		return ".json"
	default:
		return ".md"
	}
}

// Token counter names accepted by Configuration.Tokenizer.
const (
	TokenizerWords    = "words"
	TokenizerTiktoken = "tiktoken"
)

// Default markers delimiting each file's content in textual output.
const (
	DefaultStartMarker = "=== Start of"
	DefaultEndMarker   = "=== End of"
)

// DefaultExcludedDirs are directory names pruned by every default
// configuration, typically version-control and build-cache folders.
var DefaultExcludedDirs = []string{".git", "__pycache__", "node_modules"}

// Configuration is the fully resolved input to a pipeline run. It is built
// once by the caller (the CLI layer in this repository) and never mutated by
// the core.
type Configuration struct {
	RootDir string // Directory to compile.
	Output  string // Output file path; the extension is normalized per Format.
	Format  Format

	IncludeExtensions []string // Only these extensions, when non-empty.
	ExcludeExtensions []string
	ExcludeDirs       []string // Directory names pruned from the walk.
	ExcludeFiles      []string // Exact file names to skip.
	IncludePatterns   []string // Glob patterns; only matching files, when non-empty.
	ExcludePatterns   []string // Glob patterns excluding matching files.
	IgnorePatterns    []string // gitignore-style patterns applied to files and directories.

	StartMarker     string
	EndMarker       string
	IncludeMetadata bool

	LimitBytes    int64 // Maximum serialized size per output chunk; 0 = unlimited.
	MaxFileSizeKB int   // Maximum size of an individual input file; 0 = unlimited.
	MaxWorkers    int   // Ingestion worker count; 0 = number of CPUs.

	Tokenizer string // TokenizerWords (default) or TokenizerTiktoken.

	// Optional capability overrides. Nil selects the production defaults.
	Classifier TextClassifier
	Observer   Observer
}

// DefaultConfiguration returns a Configuration that compiles root into a
// single Markdown document with metadata, mirroring the tool's CLI defaults.
func DefaultConfiguration(root string) Configuration {
	return Configuration{
		RootDir:         root,
		Output:          "project_files.md",
		Format:          FormatMarkdown,
		ExcludeDirs:     append([]string(nil), DefaultExcludedDirs...),
		StartMarker:     DefaultStartMarker,
		EndMarker:       DefaultEndMarker,
		IncludeMetadata: true,
		Tokenizer:       TokenizerWords,
	}
}

// Validate checks the configuration for fatal problems before any I/O.
func (c *Configuration) Validate() error {
	info, err := os.Stat(c.RootDir)
	if err != nil {
		return &ConfigError{Field: "root", Reason: fmt.Sprintf("cannot access %q: %v", c.RootDir, err)}
	}
	if !info.IsDir() {
		return &ConfigError{Field: "root", Reason: fmt.Sprintf("%q is not a directory", c.RootDir)}
	}

	switch c.Format {
	case FormatMarkdown, FormatHTML, FormatJSON:
	default:
		return &ConfigError{Field: "format", Reason: fmt.Sprintf("unknown format %q", c.Format)}
	}

	if c.Output == "" {
		return &ConfigError{Field: "output", Reason: "output path is empty"}
	}
	if c.LimitBytes < 0 {
		return &ConfigError{Field: "limit", Reason: "limit must be zero or positive"}
	}
	if c.MaxFileSizeKB < 0 {
		return &ConfigError{Field: "max-file-size", Reason: "per-file size limit must be zero or positive"}
	}

	switch c.Tokenizer {
	case "", TokenizerWords, TokenizerTiktoken:
	default:
		return &ConfigError{Field: "tokenizer", Reason: fmt.Sprintf("unknown tokenizer %q", c.Tokenizer)}
	}

	// An extension both required and banned can never match anything.
	excluded := make(map[string]struct{}, len(c.ExcludeExtensions))
	for _, ext := range c.ExcludeExtensions {
		excluded[normalizeExtension(ext)] = struct{}{}
	}
	for _, ext := range c.IncludeExtensions {
		if _, ok := excluded[normalizeExtension(ext)]; ok {
			return &ConfigError{
				Field:  "include/exclude",
				Reason: fmt.Sprintf("extension %q is both included and excluded", ext),
			}
		}
	}

	return nil
}

// normalizeExtension lowercases an extension and guarantees a leading dot,
// so ".PY", "py", and ".py" all compare equal.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ext
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
