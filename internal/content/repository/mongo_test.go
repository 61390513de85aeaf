package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ibquestionbank/questionbank/internal/content"
	"github.com/ibquestionbank/questionbank/internal/database"
	"github.com/stretchr/testify/require"
)

// Runs only when MONGODB_TEST_URI points at a reachable server.
func TestMongoRepoAgainstServer(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx := context.Background()
	client, err := database.ConnectMongo(ctx, uri, 5*time.Second)
	require.NoError(t, err)
	db := client.Database(fmt.Sprintf("questionbank_test_%d", time.Now().UnixNano()))
	defer func() { _ = db.Drop(context.Background()) }()

	r, err := NewMongoRepo(ctx, db)
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Ping(ctx))

	id, err := r.CreateQuestion(ctx, &content.Question{PaperType: "paper1", Content: "old"})
	require.NoError(t, err)
	second, err := r.CreateQuestion(ctx, &content.Question{PaperType: "paper2sl", Content: "other"})
	require.NoError(t, err)
	require.Greater(t, second, id)

	require.NoError(t, r.UpdateQuestion(ctx, id, "new", nil))
	list, err := r.ListQuestions(ctx, "paper1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "new", list[0].Content)

	q, err := r.RandomQuestion(ctx, "unknownCode")
	require.NoError(t, err)
	require.Nil(t, q)

	require.NoError(t, r.DeleteQuestion(ctx, id))
	require.ErrorIs(t, r.DeleteQuestion(ctx, id), content.ErrNotFound)

	fid, err := r.CreateFlashcard(ctx, &content.Flashcard{Type: "sl", Front: "f", Back: "b"})
	require.NoError(t, err)
	hl := "hl"
	require.NoError(t, r.UpdateFlashcard(ctx, fid, "f2", "b2", &hl))
	card, err := r.RandomFlashcard(ctx, "hl")
	require.NoError(t, err)
	require.NotNil(t, card)
	require.Equal(t, "f2", card.Front)
	require.ErrorIs(t, r.UpdateFlashcard(ctx, 9999, "a", "b", nil), content.ErrNotFound)
}
