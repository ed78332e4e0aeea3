package compile

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// EncodingGuess is the result of statistical encoding detection. Confidence
// ranges 0-100; low confidence callers should fall back to UTF-8.
type EncodingGuess struct {
	Name       string
	Confidence int
}

// TextClassifier decides whether file content is binary and guesses its
// character encoding. Implementations must be safe for concurrent use, as
// every ingestion worker shares one classifier.
type TextClassifier interface {
	IsBinary(sample []byte) bool
	DetectEncoding(sample []byte) EncodingGuess
}

// minimum detector confidence before a guessed charset is trusted for
// decoding rather than the UTF-8 default.
const encodingConfidenceFloor = 30

// chardetClassifier is the production TextClassifier. Binary detection is a
// byte-ratio heuristic over the leading sample; encoding detection uses the
// chardet statistical detector.
type chardetClassifier struct {
	detector *chardet.Detector
}

// NewTextClassifier returns the default classifier.
func NewTextClassifier() TextClassifier {
	return &chardetClassifier{detector: chardet.NewTextDetector()}
}

// IsBinary samples the leading bytes for NUL bytes or a high ratio of
// non-text byte values. Empty content counts as text.
func (c *chardetClassifier) IsBinary(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	nonText := 0
	for _, b := range sample {
		if !isTextByte(b) {
			nonText++
		}
	}
	return float64(nonText)/float64(len(sample)) > 0.3
}

// DetectEncoding runs statistical charset detection over the sample. A
// failed detection reports UTF-8 with zero confidence.
func (c *chardetClassifier) DetectEncoding(sample []byte) EncodingGuess {
	if len(sample) == 0 {
		return EncodingGuess{Name: "UTF-8", Confidence: 0}
	}
	result, err := c.detector.DetectBest(sample)
	if err != nil || result == nil || result.Charset == "" {
		return EncodingGuess{Name: "UTF-8", Confidence: 0}
	}
	return EncodingGuess{Name: result.Charset, Confidence: result.Confidence}
}

// isTextByte reports whether a byte plausibly belongs to text content:
// printable ASCII, whitespace control bytes, or any high byte (which may be
// part of a multi-byte encoding and is judged by the ratio, not individually).
func isTextByte(b byte) bool {
	return (b >= 32 && b < 127) || b == '\n' || b == '\r' || b == '\t' || b == '\f' || b >= 0x80
}

// decodeContent converts raw bytes to a string using the guessed encoding.
// Undecodable sequences never fail the file: low-confidence guesses and
// transform failures fall back to a lossy UTF-8 interpretation. The second
// return value names the encoding actually applied, the error (always an
// *EncodingError, nil on clean decodes) records a recovered failure.
func decodeContent(raw []byte, guess EncodingGuess, path string) (string, string, error) {
	name := guess.Name
	if name == "" || guess.Confidence < encodingConfidenceFloor || isUTF8Name(name) {
		return lossyUTF8(raw), "UTF-8", nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return lossyUTF8(raw), "UTF-8", &EncodingError{Path: path, Encoding: name, Err: err}
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return lossyUTF8(raw), "UTF-8", &EncodingError{Path: path, Encoding: name, Err: err}
	}
	return lossyUTF8(decoded), name, nil
}

func isUTF8Name(name string) bool {
	switch strings.ToUpper(name) {
	case "UTF-8", "UTF8", "ASCII", "US-ASCII":
		return true
	}
	return false
}

// lossyUTF8 replaces invalid UTF-8 sequences instead of failing, so a file
// corrupted mid-stream still contributes its readable portion.
func lossyUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}
