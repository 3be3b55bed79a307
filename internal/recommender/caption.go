package recommender

import "strings"

const authorDelimiter = ";"

// FormatAuthors renders a human-readable byline from the semicolon-delimited
// authors field. One name passes through, two are joined with "and", three or
// more use an Oxford-comma list. An empty field yields an empty byline.
func FormatAuthors(authors string) string {
	names := strings.Split(authors, authorDelimiter)

	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

// TruncateDescription caps a description at limit characters, appending an
// ellipsis when anything was cut. Limits are counted in runes so multi-byte
// text is never split mid-character.
func TruncateDescription(description string, limit int) string {
	runes := []rune(description)
	if len(runes) <= limit {
		return description
	}

	return string(runes[:limit]) + "..."
}
