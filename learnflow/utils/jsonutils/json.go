package jsonutils

import (
	"regexp"
	"strings"
)

var (
	reFence         = regexp.MustCompile("(?s)```(?:json)?(.*?)```")
	reArray         = regexp.MustCompile(`(?s)\[.*\]`)
	reObject        = regexp.MustCompile(`(?s)\{.*\}`)
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
)

// ExtractJSON pulls a JSON block out of model output.
//
// Priority:
// 1. Triple-backtick fenced ```json ... ```
// 2. Any [...] JSON array
// 3. Any {...} JSON object
//
// Common model formatting issues (trailing commas, BOMs, invisible
// Unicode characters) are stripped before returning.
func ExtractJSON(input string) string {
	// Remove BOMs and invisible control characters
	input = strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '\uFEFF' || r == '\u200B' || r == '\u200C' || r == '\u200D' {
			return -1 // skip
		}
		return r
	}, input))

	if match := reFence.FindStringSubmatch(input); len(match) > 1 {
		input = strings.TrimSpace(match[1])
	}
	if match := reArray.FindString(input); match != "" {
		input = match
	} else if match := reObject.FindString(input); match != "" {
		input = match
	}

	input = reTrailingComma.ReplaceAllString(input, "$1")

	return strings.TrimSpace(input)
}
