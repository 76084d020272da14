// Package report renders migration results: unified diffs, a terminal
// summary, and JSON and HTML reports.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const contextLines = 3

type diffLine struct {
	op   byte
	text string
}

// UnifiedDiff returns the unified diff between before and after with three
// lines of context. Equal inputs yield "".
func UnifiedDiff(path string, before, after []byte) string {
	if string(before) == string(after) {
		return ""
	}

	lines := diffLines(string(before), string(after))

	var b strings.Builder

	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)

	oldAt := make([]int, len(lines)+1)
	newAt := make([]int, len(lines)+1)

	for i, l := range lines {
		oldAt[i+1], newAt[i+1] = oldAt[i], newAt[i]

		if l.op != '+' {
			oldAt[i+1]++
		}

		if l.op != '-' {
			newAt[i+1]++
		}
	}

	for i := 0; i < len(lines); {
		if lines[i].op == ' ' {
			i++

			continue
		}

		start := max(0, i-contextLines)
		end := i + 1

		for j := i + 1; j < len(lines); j++ {
			if lines[j].op != ' ' {
				end = j + 1

				continue
			}

			if j-end+1 > 2*contextLines {
				break
			}
		}

		stop := min(len(lines), end+contextLines)

		fmt.Fprintf(&b, "@@ -%s +%s @@\n",
			hunkRange(oldAt[start], oldAt[stop]-oldAt[start]),
			hunkRange(newAt[start], newAt[stop]-newAt[start]))

		for _, l := range lines[start:stop] {
			b.WriteByte(l.op)
			b.WriteString(l.text)

			if !strings.HasSuffix(l.text, "\n") {
				b.WriteString("\n\\ No newline at end of file\n")
			}
		}

		i = stop
	}

	return b.String()
}

// hunkRange formats a hunk side; before is the count of lines preceding it.
func hunkRange(before, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", before)
	}

	return fmt.Sprintf("%d,%d", before+1, count)
}

func diffLines(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	src, dst, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(src, dst, false), lineArray)

	var lines []diffLine

	for _, d := range diffs {
		op := byte(' ')

		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = '+'
		case diffmatchpatch.DiffDelete:
			op = '-'
		case diffmatchpatch.DiffEqual:
		}

		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text != "" {
				lines = append(lines, diffLine{op: op, text: text})
			}
		}
	}

	return lines
}

// WriteDiff copies a unified diff to w, coloring it unless plain is set.
func WriteDiff(w io.Writer, diff string, plain bool) error {
	header := color.New(color.Bold)
	hunk := color.New(color.FgCyan)
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	if plain {
		for _, c := range []*color.Color{header, hunk, added, removed} {
			c.DisableColor()
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(diff))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		var err error

		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			_, err = header.Fprintln(w, line)
		case strings.HasPrefix(line, "@@"):
			_, err = hunk.Fprintln(w, line)
		case strings.HasPrefix(line, "+"):
			_, err = added.Fprintln(w, line)
		case strings.HasPrefix(line, "-"):
			_, err = removed.Fprintln(w, line)
		default:
			_, err = fmt.Fprintln(w, line)
		}

		if err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}

	return scanner.Err()
}
