//go:build !linux && !darwin

package compile

import "os"

func createdOf(os.FileInfo) string {
	return MetaUnavailable
}
