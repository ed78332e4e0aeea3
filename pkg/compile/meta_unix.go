//go:build unix

package compile

import (
	"os"
	"os/user"
	"strconv"
	"syscall"
)

// ownerOf resolves the owning user of a file via its uid. When the name
// cannot be resolved the numeric uid is still useful, so it is returned
// rather than the unavailable sentinel.
func ownerOf(info os.FileInfo) string {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return MetaUnavailable
	}
	uid := strconv.FormatUint(uint64(st.Uid), 10)
	if u, err := user.LookupId(uid); err == nil && u.Username != "" {
		return u.Username
	}
	return uid
}
