package worktree

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ResolvePath returns where the worktree for name goes under baseDir.
// Slash segments become nested directories ("feat/ui" -> baseDir/feat/ui__<ts>)
// and the last segment carries a hex unix-seconds suffix, so re-creating a
// name never lands on the directory of an earlier, removed worktree.
func ResolvePath(baseDir, name string, now time.Time) string {
	var segments []string
	for _, seg := range strings.Split(name, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		segments = []string{"worktree"}
	}
	last := len(segments) - 1
	segments[last] += "__" + strconv.FormatInt(now.Unix(), 16)
	return filepath.Join(append([]string{baseDir}, segments...)...)
}
