package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ibquestionbank/questionbank/internal/content"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestSQLRepo(t *testing.T) *SQLRepo {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	// every pooled connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	r, err := NewSQLRepo(context.Background(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSQLRepoCreateListExactlyOnce(t *testing.T) {
	r := newTestSQLRepo(t)
	ctx := context.Background()

	id, err := r.CreateQuestion(ctx, &content.Question{PaperType: "paper1", Content: "X"})
	require.NoError(t, err)
	_, err = r.CreateQuestion(ctx, &content.Question{PaperType: "paper2hl", Content: "Y"})
	require.NoError(t, err)

	list, err := r.ListQuestions(ctx, "paper1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, id, list[0].ID)
	require.Equal(t, "X", list[0].Content)
	require.False(t, list[0].CreatedAt.IsZero())

	all, err := r.ListQuestions(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestSQLRepoListNewestFirst(t *testing.T) {
	r := newTestSQLRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	r.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	for _, c := range []string{"first", "second", "third"} {
		_, err := r.CreateQuestion(ctx, &content.Question{PaperType: "paper1", Content: c})
		require.NoError(t, err)
	}
	list, err := r.ListQuestions(ctx, "paper1")
	require.NoError(t, err)
	require.Equal(t, []string{"third", "second", "first"}, []string{list[0].Content, list[1].Content, list[2].Content})
	require.True(t, base.Add(3*time.Second).Equal(list[0].CreatedAt), "got %v", list[0].CreatedAt)
}

func TestSQLRepoUpdateReflectsOnlyNewValues(t *testing.T) {
	r := newTestSQLRepo(t)
	ctx := context.Background()

	id, err := r.CreateFlashcard(ctx, &content.Flashcard{Type: "sl", Front: "old front", Back: "old back"})
	require.NoError(t, err)
	require.NoError(t, r.UpdateFlashcard(ctx, id, "new front", "new back", nil))

	list, err := r.ListFlashcards(ctx, "sl")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "new front", list[0].Front)
	require.Equal(t, "new back", list[0].Back)

	qid, err := r.CreateQuestion(ctx, &content.Question{PaperType: "paper1", Content: "old"})
	require.NoError(t, err)
	moved := "paper3hl"
	require.NoError(t, r.UpdateQuestion(ctx, qid, "new", &moved))
	qs, err := r.ListQuestions(ctx, "paper3hl")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	require.Equal(t, "new", qs[0].Content)
}

func TestSQLRepoUnknownIDs(t *testing.T) {
	r := newTestSQLRepo(t)
	ctx := context.Background()
	require.ErrorIs(t, r.UpdateQuestion(ctx, 42, "x", nil), content.ErrNotFound)
	require.ErrorIs(t, r.DeleteQuestion(ctx, 42), content.ErrNotFound)
	require.ErrorIs(t, r.UpdateFlashcard(ctx, 42, "a", "b", nil), content.ErrNotFound)
	require.ErrorIs(t, r.DeleteFlashcard(ctx, 42), content.ErrNotFound)
}

func TestSQLRepoRandom(t *testing.T) {
	r := newTestSQLRepo(t)
	ctx := context.Background()

	q, err := r.RandomQuestion(ctx, "unknownCode")
	require.NoError(t, err)
	require.Nil(t, q)

	for i := 0; i < 5; i++ {
		_, err := r.CreateQuestion(ctx, &content.Question{PaperType: "paper2sl", Content: "q"})
		require.NoError(t, err)
	}
	_, err = r.CreateQuestion(ctx, &content.Question{PaperType: "paper1", Content: "other"})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		got, err := r.RandomQuestion(ctx, "paper2sl")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, "paper2sl", got.PaperType)
	}

	f, err := r.RandomFlashcard(ctx, "hl")
	require.NoError(t, err)
	require.Nil(t, f)
}

func TestSQLTimeScan(t *testing.T) {
	var ts sqlTime
	require.NoError(t, ts.Scan("2024-05-06 07:08:09"))
	require.True(t, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC).Equal(ts.Time))
	require.NoError(t, ts.Scan([]byte("2024-05-06 07:08:09.250000")))
	require.Equal(t, 250*time.Millisecond, time.Duration(ts.Time.Nanosecond()))
	require.Error(t, ts.Scan("yesterday"))
}
