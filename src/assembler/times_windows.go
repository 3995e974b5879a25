//go:build windows

package assembler

import (
	"os"
	"syscall"
	"time"
)

// birthTime returns the NTFS creation time.
func birthTime(fi os.FileInfo) (time.Time, bool) {
	attr, ok := fi.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(0, attr.CreationTime.Nanoseconds()), true
}
