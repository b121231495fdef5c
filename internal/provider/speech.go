package provider

import (
	"regexp"
	"strings"
)

var (
	markdownEmphasis = regexp.MustCompile("[*_~`]")
	markdownHeading  = regexp.MustCompile(`(?m)^#+\s+`)
	markdownLink     = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	newlineRun       = regexp.MustCompile(`\n+`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// NormalizeForSpeech turns lesson markdown into plain text fit for
// narration. An empty result means there is nothing to narrate.
func NormalizeForSpeech(markdown string) string {
	s := markdownEmphasis.ReplaceAllString(markdown, "")
	s = markdownHeading.ReplaceAllString(s, "")
	s = markdownLink.ReplaceAllString(s, "$1")
	s = newlineRun.ReplaceAllString(s, ". ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
