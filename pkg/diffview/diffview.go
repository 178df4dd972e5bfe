package diffview

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Color constants for better readability
const (
	RedColor    = "\x1b[31m"
	GreenColor  = "\x1b[32m"
	YellowColor = "\x1b[33m"
	BoldStyle   = "\x1b[1m"
	ResetColor  = "\x1b[0m"
)

// GetDiff returns a colored, line-oriented diff of two texts, prefixed
// with a per-file stats header. Identical texts produce an empty string.
func GetDiff(title, originalCode, newCode string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(originalCode, newCode, true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	if additions, deletions := calculateChanges(diffs); additions == 0 && deletions == 0 {
		return ""
	}
	fullPrettyText := dmp.DiffPrettyText(diffs)

	// Normalize the diff text to ensure each colored line has color codes.
	normalized := normalizeDiffText(fullPrettyText)
	lines := strings.Split(normalized, "\n")

	var result strings.Builder
	result.WriteString(statsHeader(diffs, title))

	inChangeBlock := false
	for i, line := range lines {
		if !containsColorChange(line) {
			if inChangeBlock {
				// One line of context after a change block.
				result.WriteString(fmt.Sprintf("  %s\n", line))
			}
			inChangeBlock = false
			continue
		}

		// Context line before the change block.
		if !inChangeBlock && i > 0 {
			result.WriteString(fmt.Sprintf("  %s\n", lines[i-1]))
		}

		// The "before" state is the line with additions removed, the
		// "after" state is the line with deletions removed.
		beforeLine := stripAllColor(removeColoredPart(line, GreenColor, ResetColor))
		afterLine := stripAllColor(removeColoredPart(line, RedColor, ResetColor))

		if beforeLine != afterLine {
			if strings.Contains(line, RedColor) {
				result.WriteString(fmt.Sprintf("%s- %s%s\n", RedColor, beforeLine, ResetColor))
			}
			if strings.Contains(line, GreenColor) {
				result.WriteString(fmt.Sprintf("%s+ %s%s\n", GreenColor, afterLine, ResetColor))
			}
		} else {
			// A line holding only color codes with no text change.
			result.WriteString(fmt.Sprintf("  %s\n", stripAllColor(line)))
		}
		inChangeBlock = true
	}

	return result.String()
}

func statsHeader(diffs []diffmatchpatch.Diff, title string) string {
	var result strings.Builder
	additions, deletions := calculateChanges(diffs)
	result.WriteString(fmt.Sprintf("%s%s%s%s ", BoldStyle, YellowColor, title, ResetColor))
	if additions > 0 {
		result.WriteString(fmt.Sprintf("%s%s+++%d%s ", BoldStyle, GreenColor, additions, ResetColor))
	}
	if deletions > 0 {
		result.WriteString(fmt.Sprintf("%s%s---%d%s", BoldStyle, RedColor, deletions, ResetColor))
	}
	result.WriteString("\n")
	return result.String()
}

// calculateChanges counts added and deleted characters in the diff.
func calculateChanges(diffs []diffmatchpatch.Diff) (additions, deletions int) {
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			additions += len(diff.Text)
		case diffmatchpatch.DiffDelete:
			deletions += len(diff.Text)
		}
	}
	return
}
