//go:build !darwin && !windows

package assembler

import (
	"os"
	"time"
)

// birthTime: Linux stat(2) exposes no portable creation time, so ordering
// falls back to modification time.
func birthTime(fi os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
