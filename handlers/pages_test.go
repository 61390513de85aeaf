package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ibquestionbank/questionbank/internal/content"
	"github.com/ibquestionbank/questionbank/internal/content/repository"
	"github.com/ibquestionbank/questionbank/internal/content/service"
	"github.com/ibquestionbank/questionbank/internal/storage"
	"github.com/stretchr/testify/require"
)

func get(g *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func newPagesEngine(t *testing.T) (*gin.Engine, *repository.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := repository.NewMemoryRepo()
	g := gin.New()
	RegisterPages(g, service.New(repo))
	return g, repo
}

func TestHomePageListsCategories(t *testing.T) {
	g, _ := newPagesEngine(t)

	w := get(g, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, p := range content.Papers {
		require.Contains(t, body, `href="/paper/`+p.ID+`"`)
	}
	require.Contains(t, body, `href="/flashcards/sl"`)
	require.Contains(t, body, `href="/flashcards/hl"`)
}

func TestPaperPage(t *testing.T) {
	g, repo := newPagesEngine(t)

	w := get(g, "/paper/paper1")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "No questions found")

	_, err := repo.CreateQuestion(context.Background(), &content.Question{PaperType: "paper1", Content: "Explain <b>price</b> elasticity."})
	require.NoError(t, err)
	w = get(g, "/paper/paper1")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Paper 1 Practice")
	require.Contains(t, w.Body.String(), "Explain &lt;b&gt;price&lt;/b&gt; elasticity.")

	w = get(g, "/paper/paper9")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Invalid paper type.")
}

func TestFlashcardPageNavigation(t *testing.T) {
	g, repo := newPagesEngine(t)
	ctx := context.Background()
	for _, front := range []string{"first", "second", "third"} {
		_, err := repo.CreateFlashcard(ctx, &content.Flashcard{Type: "sl", Front: front, Back: front + " back"})
		require.NoError(t, err)
	}
	cards, err := repo.ListFlashcards(ctx, "sl")
	require.NoError(t, err)

	w := get(g, "/flashcards/sl")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), cards[0].Front)
	require.Contains(t, w.Body.String(), "1 / 3")
	require.Contains(t, w.Body.String(), `href="/flashcards/sl?i=1"`)

	w = get(g, "/flashcards/sl?i=2")
	require.Contains(t, w.Body.String(), cards[2].Front)
	require.Contains(t, w.Body.String(), `href="/flashcards/sl?i=1"`)
	require.Contains(t, w.Body.String(), "3 / 3")

	w = get(g, "/flashcards/sl?i=99")
	require.Contains(t, w.Body.String(), "3 / 3")

	w = get(g, "/flashcards/hl")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "No flashcards found")

	w = get(g, "/flashcards/xl")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminPageAndStatic(t *testing.T) {
	g, _ := newPagesEngine(t)

	w := get(g, "/admin")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `id="admin-password"`)
	require.Contains(t, w.Body.String(), `<option value="paper2hl">`)

	w = get(g, "/static/admin.js")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "x-admin-password")
}

func TestCardIndex(t *testing.T) {
	require.Equal(t, 0, cardIndex("", 3))
	require.Equal(t, 0, cardIndex("-4", 3))
	require.Equal(t, 1, cardIndex("1", 3))
	require.Equal(t, 2, cardIndex("7", 3))
}

func TestCSVFilesFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Paper 1.csv"), []byte("Content\nWhat is GDP?\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("nope"), 0o644))
	g := gin.New()
	RegisterCSVFiles(g, storage.NewDirStorage(dir))

	w := get(g, "/CSVfiles/Paper%201.csv")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	require.Equal(t, "Content\nWhat is GDP?\n", w.Body.String())

	w = get(g, "/CSVfiles/secret.txt")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = get(g, "/CSVfiles/Paper%203.csv")
	require.Equal(t, http.StatusNotFound, w.Code)
}
