package subtitle

import "strings"

// EscapeFilterPath escapes a file path for use inside an ffmpeg filter
// argument (subtitles='...'). Backslashes become slashes so Windows paths
// survive, then colon and apostrophe are escaped.
func EscapeFilterPath(path string) string {
	escaped := strings.ReplaceAll(path, "\\", "/")
	escaped = strings.ReplaceAll(escaped, ":", "\\:")
	escaped = strings.ReplaceAll(escaped, "'", "\\'")
	return escaped
}
