package notetext

import (
	"testing"

	"clinical-notes-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestExtract_NarrativePlainText(t *testing.T) {
	note := &entity.Note{Kind: entity.NoteKindNarrative, Title: "ignored", Content: "chest pain, elevated troponin"}
	assert.Equal(t, "chest pain, elevated troponin", Extract(note))
}

func TestExtract_NarrativeLexical(t *testing.T) {
	note := &entity.Note{
		Content: `{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"abdominal pain"}]}]}}`,
	}
	assert.Equal(t, "abdominal pain", Extract(note))
}

func TestExtract_Analytical(t *testing.T) {
	note := &entity.Note{
		Kind:  entity.NoteKindAnalytical,
		Title: "Lab panel",
		Findings: []entity.Finding{
			{Label: "Troponin", Value: "0.8 ng/mL"},
			{Label: "", Value: "hemolysed sample"},
			{Label: " ", Value: " "},
			{Label: "Lipase", Value: "normal"},
		},
	}
	assert.Equal(t, "Lab panel\nTroponin: 0.8 ng/mL\nhemolysed sample\nLipase: normal", Extract(note))
}

func TestExtract_Total(t *testing.T) {
	assert.Equal(t, "", Extract(nil))
	assert.Equal(t, "", Extract(&entity.Note{}))
	assert.Equal(t, "", Extract(&entity.Note{Kind: entity.NoteKindAnalytical}))
}
