// Package textutil holds byte-level checks applied to source files before
// they are parsed.
package textutil

import "bytes"

// sniffLength bounds the NUL scan, as git does for its binary heuristic.
const sniffLength = 8000

// IsBinary reports whether data has a NUL byte in its first 8000 bytes.
func IsBinary(data []byte) bool {
	return bytes.IndexByte(data[:min(len(data), sniffLength)], 0) >= 0
}

// CountLines counts lines, including a final line without a newline.
func CountLines(data []byte) int {
	lines := bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		lines++
	}

	return lines
}
