package handlers

import (
	"context"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ibquestionbank/questionbank/internal/content"
	"github.com/ibquestionbank/questionbank/internal/content/repository"
	"github.com/ibquestionbank/questionbank/internal/content/service"
	"github.com/ibquestionbank/questionbank/pkg/logger"
)

//go:embed all:templates
var templateFiles embed.FS

//go:embed all:static
var staticFiles embed.FS

// presignedCSVLinkTTL bounds how long a redirected CSV download stays valid.
const presignedCSVLinkTTL = 15 * time.Minute

// RegisterPages installs the HTML templates on r and mounts the home, paper,
// flashcard and admin pages plus the static assets they use.
func RegisterPages(r *gin.Engine, svc *service.Service) {
	tpl := template.Must(template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"dec": func(i int) int { return i - 1 },
	}).ParseFS(templateFiles, "templates/*.html"))
	r.SetHTMLTemplate(tpl)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		logger.Fatalf("failed to open embedded static assets: %v", err)
	}
	r.StaticFS("/static", http.FS(staticFS))

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "home", gin.H{
			"Title":         "Home",
			"Papers":        content.Papers,
			"FlashcardSets": content.FlashcardSets,
		})
	})

	r.GET("/paper/:paperId", func(c *gin.Context) {
		paper, ok := content.LookupPaper(c.Param("paperId"))
		if !ok {
			notFound(c, "Invalid paper type.")
			return
		}
		q, err := svc.RandomQuestion(c.Request.Context(), paper.ID)
		if err != nil {
			serverError(c)
			return
		}
		c.HTML(http.StatusOK, "paper", gin.H{"Title": paper.Name, "Paper": paper, "Question": q})
	})

	r.GET("/flashcards/:type", func(c *gin.Context) {
		set, ok := content.LookupFlashcardSet(c.Param("type"))
		if !ok {
			notFound(c, "Invalid flashcard type.")
			return
		}
		cards, err := svc.ListFlashcards(c.Request.Context(), set.ID)
		if err != nil {
			serverError(c)
			return
		}
		data := gin.H{"Title": set.Name, "Set": set, "Total": len(cards)}
		if len(cards) > 0 {
			i := cardIndex(c.Query("i"), len(cards))
			data["Index"] = i
			data["Card"] = cards[i]
			data["HasPrev"] = i > 0
			data["HasNext"] = i < len(cards)-1
		}
		c.HTML(http.StatusOK, "flashcards", data)
	})

	r.GET("/admin", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin", gin.H{
			"Title":         "Admin",
			"Papers":        content.Papers,
			"FlashcardSets": content.FlashcardSets,
		})
	})
}

// cardIndex parses the ?i= query value and clamps it to [0, n).
func cardIndex(raw string, n int) int {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func notFound(c *gin.Context, msg string) {
	c.HTML(http.StatusNotFound, "error", gin.H{"Message": msg})
}

func serverError(c *gin.Context) {
	c.HTML(http.StatusInternalServerError, "error", gin.H{"Message": "Something went wrong loading this page. Please try again."})
}

type presigner interface {
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// RegisterCSVFiles serves the raw category files of the CSV store at
// /CSVfiles/:name. Bucket sources answer with a redirect to a presigned URL.
// Only file names of known categories are served.
func RegisterCSVFiles(r gin.IRouter, src repository.FileSource) {
	known := map[string]bool{}
	for _, cat := range append(append([]content.Category{}, content.Papers...), content.FlashcardSets...) {
		known[cat.File] = true
	}

	r.GET("/CSVfiles/:name", func(c *gin.Context) {
		name := c.Param("name")
		if !known[name] {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if p, ok := src.(presigner); ok {
			url, err := p.GetPresignedURL(c.Request.Context(), name, presignedCSVLinkTTL)
			if err != nil {
				logger.Errorf("presign %s: %v", name, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			}
			c.Redirect(http.StatusTemporaryRedirect, url)
			return
		}
		rc, err := src.DownloadFile(c.Request.Context(), name)
		if err != nil {
			logger.Warnf("csv file %s unavailable: %v", name, err)
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		defer rc.Close()
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, rc); err != nil {
			logger.Warnf("stream %s: %v", name, err)
		}
	})
}
