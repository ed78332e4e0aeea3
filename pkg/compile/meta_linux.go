//go:build linux

package compile

import (
	"os"
	"syscall"
	"time"
)

// createdOf reports the inode change time. Linux does not expose a birth
// time through Stat_t, and the change time is the closest portable analog.
func createdOf(info os.FileInfo) string {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return MetaUnavailable
	}
	return time.Unix(st.Ctim.Sec, st.Ctim.Nsec).Format(time.RFC3339)
}
