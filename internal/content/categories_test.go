package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupCategories(t *testing.T) {
	p, ok := LookupPaper("paper3hl")
	require.True(t, ok)
	require.Equal(t, "Paper 3.csv", p.File)

	_, ok = LookupPaper("sl")
	require.False(t, ok, "flashcard codes are not papers")

	f, ok := LookupFlashcardSet("hl")
	require.True(t, ok)
	require.Equal(t, "Flashcards_HL.csv", f.File)

	_, ok = LookupFlashcardSet("unknownCode")
	require.False(t, ok)
}
