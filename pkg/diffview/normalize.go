package diffview

import (
	"regexp"
	"strings"
)

// normalizeDiffText ensures that every colored line has its own color
// start and end codes. DiffPrettyText can emit color blocks spanning
// multiple lines, e.g. `\x1b[31mline1\nline2\x1b[0m`; this transforms it
// into `\x1b[31mline1\x1b[0m\n\x1b[31mline2\x1b[0m` so each line can be
// processed independently. A color code stays active across lines until
// its reset appears, so the active color is tracked while rewriting.
func normalizeDiffText(text string) string {
	lines := strings.Split(text, "\n")
	var newLines []string
	currentColor := ""

	for _, line := range lines {
		var processedLine strings.Builder
		restOfLine := line

		// If a color is active from a previous line, apply it to the start of this line.
		if currentColor != "" {
			processedLine.WriteString(currentColor)
		}

		for len(restOfLine) > 0 {
			redIndex := strings.Index(restOfLine, RedColor)
			greenIndex := strings.Index(restOfLine, GreenColor)
			resetIndex := strings.Index(restOfLine, ResetColor)

			// Find the earliest color code.
			firstIndex := -1
			var firstColor string

			if redIndex != -1 {
				firstIndex = redIndex
				firstColor = RedColor
			}
			if greenIndex != -1 && (firstIndex == -1 || greenIndex < firstIndex) {
				firstIndex = greenIndex
				firstColor = GreenColor
			}
			if resetIndex != -1 && (firstIndex == -1 || resetIndex < firstIndex) {
				firstIndex = resetIndex
				firstColor = ResetColor
			}

			if firstIndex == -1 {
				// No more color codes on this line.
				processedLine.WriteString(restOfLine)
				break
			}

			processedLine.WriteString(restOfLine[:firstIndex])
			processedLine.WriteString(firstColor)

			if firstColor == ResetColor {
				currentColor = ""
			} else {
				currentColor = firstColor
			}

			restOfLine = restOfLine[firstIndex+len(firstColor):]
		}

		// If a color is still active at the end of the line, reset it for
		// this line; it is re-applied on the next.
		if currentColor != "" {
			processedLine.WriteString(ResetColor)
		}
		newLines = append(newLines, processedLine.String())
	}

	return strings.Join(newLines, "\n")
}

// removeColoredPart removes the text between the specified start and end color codes.
func removeColoredPart(line, startColor, endColor string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(startColor) + `.*?` + regexp.QuoteMeta(endColor))
	return re.ReplaceAllString(line, "")
}

var stripColorRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripAllColor removes all ANSI color codes.
func stripAllColor(s string) string {
	return stripColorRegex.ReplaceAllString(s, "")
}

// containsColorChange checks if the line contains any color change escape sequences.
func containsColorChange(line string) bool {
	return strings.Contains(line, GreenColor) || strings.Contains(line, RedColor)
}
