package service

import "strings"

// fillerPrefixes are conversational acknowledgments the voice agent sometimes
// echoes back as if they were food content. Matched case-insensitively against
// the start of the text.
var fillerPrefixes = []string{
	"got it",
	"i've logged",
	"i have logged",
	"logging",
	"sure",
}

// IsFiller reports whether text is a conversational acknowledgment rather
// than genuine food content. Anything that does not start with one of the
// known prefixes passes, including empty or malformed strings.
func IsFiller(text string) bool {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, p := range fillerPrefixes {
		if strings.HasPrefix(lowered, p) {
			return true
		}
	}
	return false
}
