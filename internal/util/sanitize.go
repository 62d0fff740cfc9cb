// Package util holds small helpers for preparing caller-supplied values
// (usernames, filenames, provider names) for structured logs.
package util

import (
	"regexp"
	"strings"
)

var controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]+`)

// SanitizeForLog removes control characters and newlines from user content
// before logging, so a hostile username or filename cannot forge log lines.
func SanitizeForLog(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return controlChars.ReplaceAllString(s, " ")
}

// Truncate caps a logged value at max bytes.
func Truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
