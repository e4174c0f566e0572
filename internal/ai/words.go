package ai

import (
	"html"
	"regexp"
	"strings"
)

const wordsPerMinute = 200

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// CountWords strips HTML tags and counts the whitespace-delimited tokens left.
func CountWords(content string) int {
	text := html.UnescapeString(tagPattern.ReplaceAllString(content, " "))
	return len(strings.Fields(text))
}

// ReadingTime is the reading time in whole minutes, rounded up.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
