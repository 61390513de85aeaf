package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Pallinder/go-randomdata"
	"github.com/ibquestionbank/questionbank/internal/content"
	"github.com/ibquestionbank/questionbank/internal/content/repository"
	"github.com/ibquestionbank/questionbank/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuestionTrimsAndValidates(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()

	q, err := svc.CreateQuestion(ctx, " paper1 ", "  Explain market failure.  ")
	require.NoError(t, err)
	require.NotZero(t, q.ID)
	require.Equal(t, "paper1", q.PaperType)
	require.Equal(t, "Explain market failure.", q.Content)

	_, err = svc.CreateQuestion(ctx, "paper1", "   ")
	require.ErrorIs(t, err, content.ErrInvalid)
	_, err = svc.CreateQuestion(ctx, "", "text")
	require.ErrorIs(t, err, content.ErrInvalid)

	list, err := svc.ListQuestions(ctx, "paper1")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestCreateUpdateListReflectsUpdate(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()

	q, err := svc.CreateQuestion(ctx, "paper1", "old")
	require.NoError(t, err)
	moved := "paper2hl"
	require.NoError(t, svc.UpdateQuestion(ctx, q.ID, "new", &moved))

	list, err := svc.ListQuestions(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].Content)
	assert.Equal(t, "paper2hl", list[0].PaperType)

	empty := " "
	require.ErrorIs(t, svc.UpdateQuestion(ctx, q.ID, "x", &empty), content.ErrInvalid)
	require.ErrorIs(t, svc.UpdateQuestion(ctx, 999, "x", nil), content.ErrNotFound)
	require.ErrorIs(t, svc.DeleteQuestion(ctx, 999), content.ErrNotFound)
}

func TestRandomRequiresCategory(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()

	_, err := svc.RandomQuestion(ctx, "")
	require.ErrorIs(t, err, content.ErrInvalid)
	_, err = svc.RandomFlashcard(ctx, " ")
	require.ErrorIs(t, err, content.ErrInvalid)

	q, err := svc.RandomQuestion(ctx, "unknownCode")
	require.NoError(t, err)
	require.Nil(t, q)
}

func TestFlashcardLifecycle(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()

	f, err := svc.CreateFlashcard(ctx, "sl", "Opportunity cost", "The next best alternative forgone")
	require.NoError(t, err)
	require.NoError(t, svc.UpdateFlashcard(ctx, f.ID, "Opportunity cost", "Value of the next best alternative", nil))

	got, err := svc.RandomFlashcard(ctx, "sl")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Value of the next best alternative", got.Back)

	_, err = svc.CreateFlashcard(ctx, "sl", "front only", "")
	require.ErrorIs(t, err, content.ErrInvalid)

	require.NoError(t, svc.DeleteFlashcard(ctx, f.ID))
	list, err := svc.ListFlashcards(ctx, "sl")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestBulkCreateQuestions(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()
	block := randomdata.SillyName() + "\n\n   \r\n" + randomdata.SillyName() + "\r\n" + randomdata.SillyName()

	res, err := svc.BulkCreateQuestions(ctx, "paper3hl", block)
	require.NoError(t, err)
	require.Equal(t, BulkResult{Created: 3}, res)

	list, err := svc.ListQuestions(ctx, "paper3hl")
	require.NoError(t, err)
	require.Len(t, list, 3)

	_, err = svc.BulkCreateQuestions(ctx, "paper3hl", "\n \n")
	require.ErrorIs(t, err, content.ErrInvalid)
}

func TestBulkCreateFlashcards(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	ctx := context.Background()
	block := "GDP\tGross domestic product\nCPI | Consumer price index\nno separator here\n | missing front"

	res, err := svc.BulkCreateFlashcards(ctx, "hl", block)
	require.NoError(t, err)
	require.Equal(t, BulkResult{Created: 2, Skipped: 2}, res)

	list, err := svc.ListFlashcards(ctx, "hl")
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestSplitFlashcardLine(t *testing.T) {
	cases := []struct {
		line        string
		front, back string
		ok          bool
	}{
		{"a\tb", "a", "b", true},
		{"a | b", "a", "b", true},
		{"a | b\tc", "a | b", "c", true},
		{"a|b", "", "", false},
		{"a\t ", "", "", false},
	}
	for _, c := range cases {
		front, back, ok := SplitFlashcardLine(c.line)
		assert.Equal(t, c.ok, ok, c.line)
		assert.Equal(t, c.front, front, c.line)
		assert.Equal(t, c.back, back, c.line)
	}
}

// failingRepo fails every create after the first n.
type failingRepo struct {
	*repository.MemoryRepo
	n int
}

var errBackend = errors.New("disk full")

func (f *failingRepo) CreateQuestion(ctx context.Context, q *content.Question) (int64, error) {
	if f.n == 0 {
		return 0, errBackend
	}
	f.n--
	return f.MemoryRepo.CreateQuestion(ctx, q)
}

func TestBulkStopsAtFirstBackendError(t *testing.T) {
	svc := New(&failingRepo{MemoryRepo: repository.NewMemoryRepo(), n: 1})
	before := testutil.ToFloat64(metrics.StoreOperations.WithLabelValues("question", "bulk", "error"))

	res, err := svc.BulkCreateQuestions(context.Background(), "paper1", "one\ntwo\nthree")
	require.ErrorIs(t, err, errBackend)
	require.Equal(t, BulkResult{Created: 1}, res)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.StoreOperations.WithLabelValues("question", "bulk", "error")))
}

func TestWritesDisabledPassesThrough(t *testing.T) {
	svc := New(repository.NewCSVRepo(nil))
	_, err := svc.CreateQuestion(context.Background(), "paper1", "X")
	require.ErrorIs(t, err, content.ErrWritesDisabled)
	require.ErrorIs(t, svc.DeleteFlashcard(context.Background(), 1), content.ErrWritesDisabled)
}

func TestValidationMessageNamesFields(t *testing.T) {
	svc := New(repository.NewMemoryRepo())
	_, err := svc.CreateFlashcard(context.Background(), "sl", "", " ")
	require.ErrorIs(t, err, content.ErrInvalid)
	require.EqualError(t, err, "invalid input: front is required, back is required")
}
