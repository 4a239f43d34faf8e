package output

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FFmpegCommand returns the command line that assembles the numbered frames
// of s into an H.264 movie at fps frames per second. It returns false for
// formats ffmpeg cannot read as an image sequence.
func FFmpegCommand(s *FileStore, fps int) (string, bool) {
	if !s.Format.Video {
		return "", false
	}
	args := []string{
		"ffmpeg",
		"-framerate", fmt.Sprint(fps),
		"-i", quote(s.Pattern()),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-crf", "18",
		"-preset", "slow",
		quote(filepath.Join(s.Dir, s.Base+"zoom.mp4")),
	}
	return strings.Join(args, " "), true
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t'\"\\$`") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
