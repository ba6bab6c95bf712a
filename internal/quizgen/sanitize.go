package quizgen

import (
	"regexp"
	"strings"
)

const fence = "```"

var (
	arraySpan     = regexp.MustCompile(`(?s)\[(.*)\]`)
	trailingComma = regexp.MustCompile(`(?:,\s*)+([}\]])`)
)

// Sanitize extracts a best-effort JSON array from raw model output. It strips
// code fences and surrounding prose and removes trailing commas. The result
// may still fail to parse. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) string {
	s := raw
	if i := strings.Index(s, fence+"json"); i >= 0 {
		s = untilFence(s[i+len(fence)+len("json"):])
	} else if i := strings.Index(s, fence); i >= 0 {
		s = untilFence(s[i+len(fence):])
	}

	s = strings.TrimSpace(s)

	if !(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) {
		if m := arraySpan.FindStringSubmatch(s); m != nil {
			s = "[" + m[1] + "]"
		}
	}

	return trailingComma.ReplaceAllString(s, "$1")
}

// untilFence cuts s at the next fence. Without one, s is returned whole.
func untilFence(s string) string {
	if j := strings.Index(s, fence); j >= 0 {
		return s[:j]
	}
	return s
}
