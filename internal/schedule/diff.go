package schedule

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"greenthumb/pkg/gardentypes"
)

// DiffOp marks a line of a schedule diff.
type DiffOp string

// Diff line operations.
const (
	DiffEqual  DiffOp = " "
	DiffInsert DiffOp = "+"
	DiffDelete DiffOp = "-"
)

// DiffLine is one line of a line-oriented schedule diff.
type DiffLine struct {
	Op   DiffOp
	Text string
}

// Diff compares the Markdown renderings of two schedules line by line.
func Diff(from, to *gardentypes.GeneratedSchedule) []DiffLine {
	dmp := diffmatchpatch.New()
	fromChars, toChars, lines := dmp.DiffLinesToChars(ToMarkdown(from), ToMarkdown(to))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(fromChars, toChars, false), lines)

	var out []DiffLine
	for _, d := range diffs {
		op := DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, DiffLine{Op: op, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return out
}

// HasChanges reports whether any line was inserted or deleted.
func HasChanges(lines []DiffLine) bool {
	for _, line := range lines {
		if line.Op != DiffEqual {
			return true
		}
	}
	return false
}

// FormatDiff renders lines as unified-style text, optionally dropping unchanged lines.
func FormatDiff(lines []DiffLine, changesOnly bool) string {
	var b strings.Builder
	for _, line := range lines {
		if changesOnly && line.Op == DiffEqual {
			continue
		}
		b.WriteString(string(line.Op))
		b.WriteString(" ")
		b.WriteString(line.Text)
		b.WriteString("\n")
	}
	return b.String()
}
