package entity

import (
	"strings"
	"unicode"
)

// FallbackSummaryRunes is how much of a comment the fallback summary keeps
const FallbackSummaryRunes = 40

// Group is a set of semantically similar comments with a short summary
type Group struct {
	Summary  string   `json:"summary"`
	Comments []string `json:"comments"`
}

// SanitizeComment strips double quotes, turns newlines into spaces and
// collapses whitespace. An empty result means the comment is unusable.
func SanitizeComment(text string) string {
	text = strings.ReplaceAll(text, `"`, "")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.Join(splitWhitespace(text), " ")
}

// splitWhitespace splits on unicode whitespace and the ASCII information
// separators 0x1c-0x1f, which Python's str.split also treats as blanks.
func splitWhitespace(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
	})
}

// FallbackGroups puts every comment in its own group
func FallbackGroups(comments []string) []Group {
	groups := make([]Group, 0, len(comments))
	for _, c := range comments {
		groups = append(groups, Group{
			Summary:  "Comment: " + truncateRunes(c, FallbackSummaryRunes) + "...",
			Comments: []string{c},
		})
	}
	return groups
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
