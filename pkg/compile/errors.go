package compile

import (
	"errors"
	"fmt"
)

// ErrNoFiles is returned when a run produces zero readable files, either
// because nothing survived filtering or every candidate failed to ingest.
var ErrNoFiles = errors.New("no files could be processed")

// ConfigError reports an invalid or contradictory Configuration. It is fatal
// and raised before any filesystem I/O.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// AccessError reports a directory or file that could not be read. It is
// recovered locally: the path is recorded and skipped, the run continues.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access denied: %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// EncodingError reports a decode failure for one file. It is recovered by
// falling back to a lossy decode and only surfaces in logs.
type EncodingError struct {
	Path     string
	Encoding string
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("decode failed for %s as %s: %v", e.Path, e.Encoding, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// RenderError reports content that could not be serialized into the target
// format.
type RenderError struct {
	Format Format
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render to %s failed: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
