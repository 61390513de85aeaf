package repository

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/ibquestionbank/questionbank/internal/content"
	"github.com/ibquestionbank/questionbank/internal/content/csvfile"
)

// FileSource yields the raw CSV file for a key. storage.DirStorage and
// storage.MinIOStorage both satisfy it.
type FileSource interface {
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
}

// CSVRepo serves content straight from per-category CSV files. Every read
// parses the file afresh; all writes fail with content.ErrWritesDisabled.
type CSVRepo struct {
	src FileSource
}

func NewCSVRepo(src FileSource) *CSVRepo {
	return &CSVRepo{src: src}
}

func (c *CSVRepo) Ping(ctx context.Context) error {
	if p, ok := c.src.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (c *CSVRepo) Close() error { return nil }

// Source returns the file source the repo reads from.
func (c *CSVRepo) Source() FileSource { return c.src }

func (c *CSVRepo) ListQuestions(ctx context.Context, paperType string) ([]content.Question, error) {
	papers := content.Papers
	if paperType != "" {
		p, ok := content.LookupPaper(paperType)
		if !ok {
			return []content.Question{}, nil
		}
		papers = []content.Category{p}
	}
	out := []content.Question{}
	for _, p := range papers {
		rc, err := c.src.DownloadFile(ctx, p.File)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", p.File, err)
		}
		qs, err := csvfile.ParseQuestions(rc, p.ID)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p.File, err)
		}
		out = append(out, qs...)
	}
	return out, nil
}

func (c *CSVRepo) RandomQuestion(ctx context.Context, paperType string) (*content.Question, error) {
	if _, ok := content.LookupPaper(paperType); !ok {
		return nil, nil
	}
	list, err := c.ListQuestions(ctx, paperType)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	q := list[rand.IntN(len(list))]
	return &q, nil
}

func (c *CSVRepo) ListFlashcards(ctx context.Context, cardType string) ([]content.Flashcard, error) {
	sets := content.FlashcardSets
	if cardType != "" {
		s, ok := content.LookupFlashcardSet(cardType)
		if !ok {
			return []content.Flashcard{}, nil
		}
		sets = []content.Category{s}
	}
	out := []content.Flashcard{}
	for _, s := range sets {
		rc, err := c.src.DownloadFile(ctx, s.File)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", s.File, err)
		}
		cards, err := csvfile.ParseFlashcards(rc, s.ID)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", s.File, err)
		}
		out = append(out, cards...)
	}
	return out, nil
}

func (c *CSVRepo) RandomFlashcard(ctx context.Context, cardType string) (*content.Flashcard, error) {
	if _, ok := content.LookupFlashcardSet(cardType); !ok {
		return nil, nil
	}
	list, err := c.ListFlashcards(ctx, cardType)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	f := list[rand.IntN(len(list))]
	return &f, nil
}

func (c *CSVRepo) CreateQuestion(context.Context, *content.Question) (int64, error) {
	return 0, content.ErrWritesDisabled
}

func (c *CSVRepo) UpdateQuestion(context.Context, int64, string, *string) error {
	return content.ErrWritesDisabled
}

func (c *CSVRepo) DeleteQuestion(context.Context, int64) error {
	return content.ErrWritesDisabled
}

func (c *CSVRepo) CreateFlashcard(context.Context, *content.Flashcard) (int64, error) {
	return 0, content.ErrWritesDisabled
}

func (c *CSVRepo) UpdateFlashcard(context.Context, int64, string, string, *string) error {
	return content.ErrWritesDisabled
}

func (c *CSVRepo) DeleteFlashcard(context.Context, int64) error {
	return content.ErrWritesDisabled
}
