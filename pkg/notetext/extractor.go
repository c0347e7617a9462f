// Package notetext turns a stored clinical note into the single string that is
// fingerprinted and embedded.
package notetext

import (
	"strings"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/pkg/lexical"
)

// Extract returns the searchable text of note. It never fails; a nil or empty
// note yields "".
//
// Narrative notes contribute their content, flattened from Lexical JSON when
// needed. Analytical notes contribute their title followed by one
// "label: value" line per finding, in stored order.
func Extract(note *entity.Note) string {
	if note == nil {
		return ""
	}

	switch note.Kind {
	case entity.NoteKindAnalytical:
		return analyticalText(note)
	default:
		return lexical.ParseContent(note.Content)
	}
}

func analyticalText(note *entity.Note) string {
	lines := make([]string, 0, len(note.Findings)+1)
	if title := strings.TrimSpace(note.Title); title != "" {
		lines = append(lines, title)
	}
	for _, f := range note.Findings {
		label := strings.TrimSpace(f.Label)
		value := strings.TrimSpace(f.Value)
		switch {
		case label == "" && value == "":
			continue
		case label == "":
			lines = append(lines, value)
		default:
			lines = append(lines, label+": "+value)
		}
	}
	return strings.Join(lines, "\n")
}
