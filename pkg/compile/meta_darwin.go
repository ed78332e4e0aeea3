//go:build darwin

package compile

import (
	"os"
	"syscall"
	"time"
)

// createdOf reports the file birth time, which macOS tracks natively.
func createdOf(info os.FileInfo) string {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return MetaUnavailable
	}
	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec).Format(time.RFC3339)
}
