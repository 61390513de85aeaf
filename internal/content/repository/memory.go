package repository

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/ibquestionbank/questionbank/internal/content"
)

// MemoryRepo keeps content in process memory. It backs unit tests and the
// "memory" store backend; nothing survives a restart.
type MemoryRepo struct {
	mu         sync.RWMutex
	nextID     int64
	questions  map[int64]*content.Question
	flashcards map[int64]*content.Flashcard
	now        func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		questions:  make(map[int64]*content.Question),
		flashcards: make(map[int64]*content.Flashcard),
		now:        time.Now,
	}
}

func (m *MemoryRepo) Ping(ctx context.Context) error { return nil }
func (m *MemoryRepo) Close() error                   { return nil }

func (m *MemoryRepo) ListQuestions(ctx context.Context, paperType string) ([]content.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]content.Question, 0, len(m.questions))
	for _, q := range m.questions {
		if paperType == "" || q.PaperType == paperType {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

func (m *MemoryRepo) RandomQuestion(ctx context.Context, paperType string) (*content.Question, error) {
	list, err := m.ListQuestions(ctx, paperType)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	q := list[rand.IntN(len(list))]
	return &q, nil
}

func (m *MemoryRepo) CreateQuestion(ctx context.Context, q *content.Question) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	q.ID = m.nextID
	q.CreatedAt = m.now().UTC()
	stored := *q
	m.questions[q.ID] = &stored
	return q.ID, nil
}

func (m *MemoryRepo) UpdateQuestion(ctx context.Context, id int64, text string, paperType *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return content.ErrNotFound
	}
	if paperType != nil {
		q.PaperType = *paperType
	}
	q.Content = text
	return nil
}

func (m *MemoryRepo) DeleteQuestion(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[id]; !ok {
		return content.ErrNotFound
	}
	delete(m.questions, id)
	return nil
}

func (m *MemoryRepo) ListFlashcards(ctx context.Context, cardType string) ([]content.Flashcard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]content.Flashcard, 0, len(m.flashcards))
	for _, f := range m.flashcards {
		if cardType == "" || f.Type == cardType {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

func (m *MemoryRepo) RandomFlashcard(ctx context.Context, cardType string) (*content.Flashcard, error) {
	list, err := m.ListFlashcards(ctx, cardType)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	f := list[rand.IntN(len(list))]
	return &f, nil
}

func (m *MemoryRepo) CreateFlashcard(ctx context.Context, f *content.Flashcard) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	f.ID = m.nextID
	f.CreatedAt = m.now().UTC()
	stored := *f
	m.flashcards[f.ID] = &stored
	return f.ID, nil
}

func (m *MemoryRepo) UpdateFlashcard(ctx context.Context, id int64, front, back string, cardType *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flashcards[id]
	if !ok {
		return content.ErrNotFound
	}
	if cardType != nil {
		f.Type = *cardType
	}
	f.Front = front
	f.Back = back
	return nil
}

func (m *MemoryRepo) DeleteFlashcard(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flashcards[id]; !ok {
		return content.ErrNotFound
	}
	delete(m.flashcards, id)
	return nil
}

// newerFirst orders by creation time descending, breaking ties on id so that
// rows created within the same clock tick keep insertion order reversed.
func newerFirst(at time.Time, aID int64, bt time.Time, bID int64) bool {
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return aID > bID
}
