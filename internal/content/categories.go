package content

// Category describes one paper or flashcard set shown in the UI.
type Category struct {
	ID   string
	Name string
	// File is the CSV file holding this category's rows.
	File string
	// Description is the one-liner shown on the home page.
	Description string
}

var Papers = []Category{
	{ID: "paper1", Name: "Paper 1", File: "Paper 1.csv", Description: "Standard Level & Higher Level"},
	{ID: "paper2sl", Name: "Paper 2 SL", File: "Paper 2 SL.csv", Description: "Standard Level"},
	{ID: "paper2hl", Name: "Paper 2 HL", File: "Paper 2 HL.csv", Description: "Higher Level"},
	{ID: "paper3hl", Name: "Paper 3 HL", File: "Paper 3.csv", Description: "Higher Level Only"},
}

var FlashcardSets = []Category{
	{ID: "sl", Name: "SL Flashcards", File: "Flashcards_SL.csv", Description: "Standard Level Flashcards"},
	{ID: "hl", Name: "HL Flashcards", File: "Flashcards_HL.csv", Description: "Higher Level Flashcards"},
}

// LookupPaper returns the paper with the given code.
func LookupPaper(id string) (Category, bool) {
	return lookup(Papers, id)
}

// LookupFlashcardSet returns the flashcard set with the given code.
func LookupFlashcardSet(id string) (Category, bool) {
	return lookup(FlashcardSets, id)
}

func lookup(cats []Category, id string) (Category, bool) {
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
