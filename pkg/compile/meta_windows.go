//go:build !unix

package compile

import "os"

// File ownership has no portable representation here.
func ownerOf(os.FileInfo) string {
	return MetaUnavailable
}
