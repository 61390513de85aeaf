// Command seed fills the configured store with sample questions, imports a
// directory of category CSV files, or exports the store back to CSV.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/ibquestionbank/questionbank/internal/config"
	"github.com/ibquestionbank/questionbank/internal/content"
	"github.com/ibquestionbank/questionbank/internal/content/csvfile"
	"github.com/ibquestionbank/questionbank/internal/content/repository"
	"github.com/ibquestionbank/questionbank/internal/storage"
	"github.com/ibquestionbank/questionbank/pkg/logger"
	"github.com/spf13/pflag"
)

var sampleQuestions = []content.Question{
	{PaperType: "paper1", Content: "Explain the concept of opportunity cost using a production possibility curve diagram."},
	{PaperType: "paper1", Content: "Distinguish between a movement along a demand curve and a shift of the demand curve."},
	{PaperType: "paper2sl", Content: "Using a diagram, explain how a subsidy granted to producers of a good affects the market equilibrium."},
	{PaperType: "paper2hl", Content: "Discuss the view that the best way to reduce a current account deficit is to increase the value of the currency."},
	{PaperType: "paper3hl", Content: "Calculate the price elasticity of demand when the price increases from $10 to $12 and the quantity demanded decreases from 100 to 80 units."},
}

type uploader interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

func main() {
	importDir := pflag.String("import", "", "import every category CSV file from this directory")
	exportDir := pflag.String("export", "", "write the store's content as category CSV files into this directory")
	upload := pflag.Bool("upload", false, "with -export, also upload the files to the MinIO bucket")
	pflag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	ctx := context.Background()

	repo, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open %s store: %v", cfg.Store.Backend, err)
	}
	defer repo.Close()

	switch {
	case *exportDir != "":
		var up uploader
		if *upload {
			up, err = storage.NewMinIOStorage(ctx, &storage.MinIOConfig{
				Endpoint:  cfg.MinIO.Endpoint,
				AccessKey: cfg.MinIO.AccessKey,
				SecretKey: cfg.MinIO.SecretKey,
				UseSSL:    cfg.MinIO.UseSSL,
				Bucket:    cfg.MinIO.Bucket,
			})
			if err != nil {
				logger.Fatalf("failed to connect to MinIO: %v", err)
			}
		}
		if err := exportCSV(ctx, repo, *exportDir, up); err != nil {
			logger.Fatalf("export failed: %v", err)
		}
	case *importDir != "":
		q, f, err := importCSV(ctx, repo, repository.NewCSVRepo(storage.NewDirStorage(*importDir)))
		if err != nil {
			logger.Fatalf("import failed after %d questions and %d flashcards: %v", q, f, err)
		}
		logger.Infof("imported %d questions and %d flashcards", q, f)
	default:
		n, err := seed(ctx, repo)
		if err != nil {
			logger.Fatalf("seed failed after %d questions: %v", n, err)
		}
		logger.Infof("database seeded with %d questions", n)
	}
}

func seed(ctx context.Context, repo repository.QuestionRepository) (int, error) {
	for i, q := range sampleQuestions {
		if _, err := repo.CreateQuestion(ctx, &q); err != nil {
			return i, err
		}
	}
	return len(sampleQuestions), nil
}

// importCSV copies every category of src into dst. Categories whose file is
// missing or unreadable are skipped with a warning.
func importCSV(ctx context.Context, dst repository.Repository, src *repository.CSVRepo) (questions, flashcards int, err error) {
	for _, p := range content.Papers {
		list, lerr := src.ListQuestions(ctx, p.ID)
		if lerr != nil {
			logger.Warnf("skipping %s: %v", p.File, lerr)
			continue
		}
		for _, q := range list {
			q := content.Question{PaperType: q.PaperType, Content: q.Content}
			if _, err := dst.CreateQuestion(ctx, &q); err != nil {
				return questions, flashcards, fmt.Errorf("insert question from %s: %w", p.File, err)
			}
			questions++
		}
	}
	for _, s := range content.FlashcardSets {
		list, lerr := src.ListFlashcards(ctx, s.ID)
		if lerr != nil {
			logger.Warnf("skipping %s: %v", s.File, lerr)
			continue
		}
		for _, f := range list {
			f := content.Flashcard{Type: f.Type, Front: f.Front, Back: f.Back}
			if _, err := dst.CreateFlashcard(ctx, &f); err != nil {
				return questions, flashcards, fmt.Errorf("insert flashcard from %s: %w", s.File, err)
			}
			flashcards++
		}
	}
	return questions, flashcards, nil
}

// exportCSV writes one file per category into dir, oldest entity first so a
// later import keeps the row order. When up is non-nil every file is
// uploaded under the same name.
func exportCSV(ctx context.Context, repo repository.Repository, dir string, up uploader) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for _, p := range content.Papers {
		list, err := repo.ListQuestions(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("list %s: %w", p.ID, err)
		}
		slices.Reverse(list)
		var buf bytes.Buffer
		if err := csvfile.WriteQuestions(&buf, list); err != nil {
			return err
		}
		if err := writeFile(ctx, dir, p.File, buf.Bytes(), up); err != nil {
			return err
		}
	}
	for _, s := range content.FlashcardSets {
		list, err := repo.ListFlashcards(ctx, s.ID)
		if err != nil {
			return fmt.Errorf("list %s: %w", s.ID, err)
		}
		slices.Reverse(list)
		var buf bytes.Buffer
		if err := csvfile.WriteFlashcards(&buf, list); err != nil {
			return err
		}
		if err := writeFile(ctx, dir, s.File, buf.Bytes(), up); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(ctx context.Context, dir, name string, data []byte, up uploader) error {
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	logger.Infof("wrote %s", filepath.Join(dir, name))
	if up == nil {
		return nil
	}
	if err := up.UploadFile(ctx, name, bytes.NewReader(data), int64(len(data)), "text/csv"); err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	return nil
}
