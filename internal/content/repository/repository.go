package repository

import (
	"context"

	"github.com/ibquestionbank/questionbank/internal/content"
)

// QuestionRepository persists questions. An empty paperType on List means all
// papers. Random returns (nil, nil) when nothing matches.
type QuestionRepository interface {
	ListQuestions(ctx context.Context, paperType string) ([]content.Question, error)
	RandomQuestion(ctx context.Context, paperType string) (*content.Question, error)
	CreateQuestion(ctx context.Context, q *content.Question) (int64, error)
	UpdateQuestion(ctx context.Context, id int64, text string, paperType *string) error
	DeleteQuestion(ctx context.Context, id int64) error
}

// FlashcardRepository persists flashcards with the same contract as
// QuestionRepository.
type FlashcardRepository interface {
	ListFlashcards(ctx context.Context, cardType string) ([]content.Flashcard, error)
	RandomFlashcard(ctx context.Context, cardType string) (*content.Flashcard, error)
	CreateFlashcard(ctx context.Context, f *content.Flashcard) (int64, error)
	UpdateFlashcard(ctx context.Context, id int64, front, back string, cardType *string) error
	DeleteFlashcard(ctx context.Context, id int64) error
}

// Repository is the full content store implemented by every backend.
// Read-only backends return content.ErrWritesDisabled from the write methods.
type Repository interface {
	QuestionRepository
	FlashcardRepository
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Repository = (*MemoryRepo)(nil)
	_ Repository = (*SQLRepo)(nil)
	_ Repository = (*MongoRepo)(nil)
	_ Repository = (*CSVRepo)(nil)
)
