package core

import "strings"

// Filter returns the notes whose title or content contains query,
// ignoring case. The query is trimmed first; an empty query returns notes
// unchanged. Input order is preserved.
func Filter(notes []Note, query string) []Note {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return notes
	}

	matched := make([]Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			matched = append(matched, n)
		}
	}
	return matched
}
