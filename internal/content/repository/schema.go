package repository

// schema is applied statement by statement because the hosted driver does not
// accept multi-statement Exec calls.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    paper_type TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE TABLE IF NOT EXISTS flashcards (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type TEXT NOT NULL,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_paper_type ON questions(paper_type, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_flashcards_type ON flashcards(type, created_at)`,
}
