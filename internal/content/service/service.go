package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ibquestionbank/questionbank/internal/content"
	"github.com/ibquestionbank/questionbank/internal/content/repository"
	"github.com/ibquestionbank/questionbank/pkg/logger"
	"github.com/ibquestionbank/questionbank/pkg/metrics"
)

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string { return f.Tag.Get("name") })
	return v
}()

type questionInput struct {
	PaperType string `name:"paperType" validate:"required"`
	Content   string `name:"content" validate:"required"`
}

type flashcardInput struct {
	Type  string `name:"type" validate:"required"`
	Front string `name:"front" validate:"required"`
	Back  string `name:"back" validate:"required"`
}

type flashcardSides struct {
	Front string `name:"front" validate:"required"`
	Back  string `name:"back" validate:"required"`
}

// BulkResult reports how many lines of a bulk add became entities.
type BulkResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Service validates input and forwards to the repository. It keeps no state
// of its own besides the repository handle.
type Service struct {
	repo repository.Repository
}

func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) ListQuestions(ctx context.Context, paperType string) ([]content.Question, error) {
	list, err := s.repo.ListQuestions(ctx, strings.TrimSpace(paperType))
	return list, observe("question", "list", err)
}

func (s *Service) RandomQuestion(ctx context.Context, paperType string) (*content.Question, error) {
	paperType = strings.TrimSpace(paperType)
	if paperType == "" {
		return nil, observe("question", "random", invalid("paperType is required"))
	}
	q, err := s.repo.RandomQuestion(ctx, paperType)
	return q, observe("question", "random", err)
}

func (s *Service) CreateQuestion(ctx context.Context, paperType, text string) (*content.Question, error) {
	in := questionInput{PaperType: strings.TrimSpace(paperType), Content: strings.TrimSpace(text)}
	if err := check(in); err != nil {
		return nil, observe("question", "create", err)
	}
	q := &content.Question{PaperType: in.PaperType, Content: in.Content}
	if _, err := s.repo.CreateQuestion(ctx, q); err != nil {
		return nil, observe("question", "create", err)
	}
	observe("question", "create", nil)
	return q, nil
}

// UpdateQuestion replaces the text and, when paperType is non-nil, moves the
// question to another paper.
func (s *Service) UpdateQuestion(ctx context.Context, id int64, text string, paperType *string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return observe("question", "update", invalid("content is required"))
	}
	pt, err := optionalCategory(paperType, "paperType")
	if err != nil {
		return observe("question", "update", err)
	}
	return observe("question", "update", s.repo.UpdateQuestion(ctx, id, text, pt))
}

func (s *Service) DeleteQuestion(ctx context.Context, id int64) error {
	return observe("question", "delete", s.repo.DeleteQuestion(ctx, id))
}

// BulkCreateQuestions adds one question per non-blank line of block.
func (s *Service) BulkCreateQuestions(ctx context.Context, paperType, block string) (BulkResult, error) {
	var res BulkResult
	paperType = strings.TrimSpace(paperType)
	if paperType == "" {
		return res, observe("question", "bulk", invalid("paperType is required"))
	}
	lines := splitLines(block)
	if len(lines) == 0 {
		return res, observe("question", "bulk", invalid("no questions given"))
	}
	for _, line := range lines {
		if _, err := s.repo.CreateQuestion(ctx, &content.Question{PaperType: paperType, Content: line}); err != nil {
			return res, observe("question", "bulk", err)
		}
		res.Created++
	}
	return res, observe("question", "bulk", nil)
}

func (s *Service) ListFlashcards(ctx context.Context, cardType string) ([]content.Flashcard, error) {
	list, err := s.repo.ListFlashcards(ctx, strings.TrimSpace(cardType))
	return list, observe("flashcard", "list", err)
}

func (s *Service) RandomFlashcard(ctx context.Context, cardType string) (*content.Flashcard, error) {
	cardType = strings.TrimSpace(cardType)
	if cardType == "" {
		return nil, observe("flashcard", "random", invalid("type is required"))
	}
	f, err := s.repo.RandomFlashcard(ctx, cardType)
	return f, observe("flashcard", "random", err)
}

func (s *Service) CreateFlashcard(ctx context.Context, cardType, front, back string) (*content.Flashcard, error) {
	in := flashcardInput{
		Type:  strings.TrimSpace(cardType),
		Front: strings.TrimSpace(front),
		Back:  strings.TrimSpace(back),
	}
	if err := check(in); err != nil {
		return nil, observe("flashcard", "create", err)
	}
	f := &content.Flashcard{Type: in.Type, Front: in.Front, Back: in.Back}
	if _, err := s.repo.CreateFlashcard(ctx, f); err != nil {
		return nil, observe("flashcard", "create", err)
	}
	observe("flashcard", "create", nil)
	return f, nil
}

func (s *Service) UpdateFlashcard(ctx context.Context, id int64, front, back string, cardType *string) error {
	front, back = strings.TrimSpace(front), strings.TrimSpace(back)
	if err := check(flashcardSides{Front: front, Back: back}); err != nil {
		return observe("flashcard", "update", err)
	}
	ct, err := optionalCategory(cardType, "type")
	if err != nil {
		return observe("flashcard", "update", err)
	}
	return observe("flashcard", "update", s.repo.UpdateFlashcard(ctx, id, front, back, ct))
}

func (s *Service) DeleteFlashcard(ctx context.Context, id int64) error {
	return observe("flashcard", "delete", s.repo.DeleteFlashcard(ctx, id))
}

// BulkCreateFlashcards adds one card per line of block. A line is
// "front<TAB>back" or "front | back"; lines matching neither are skipped.
func (s *Service) BulkCreateFlashcards(ctx context.Context, cardType, block string) (BulkResult, error) {
	var res BulkResult
	cardType = strings.TrimSpace(cardType)
	if cardType == "" {
		return res, observe("flashcard", "bulk", invalid("type is required"))
	}
	lines := splitLines(block)
	if len(lines) == 0 {
		return res, observe("flashcard", "bulk", invalid("no flashcards given"))
	}
	for _, line := range lines {
		front, back, ok := SplitFlashcardLine(line)
		if !ok {
			res.Skipped++
			continue
		}
		if _, err := s.repo.CreateFlashcard(ctx, &content.Flashcard{Type: cardType, Front: front, Back: back}); err != nil {
			return res, observe("flashcard", "bulk", err)
		}
		res.Created++
	}
	return res, observe("flashcard", "bulk", nil)
}

// SplitFlashcardLine parses one bulk-add line into its two sides.
func SplitFlashcardLine(line string) (front, back string, ok bool) {
	sep := "\t"
	if !strings.Contains(line, sep) {
		sep = " | "
	}
	front, back, found := strings.Cut(line, sep)
	if !found {
		return "", "", false
	}
	front, back = strings.TrimSpace(front), strings.TrimSpace(back)
	if front == "" || back == "" {
		return "", "", false
	}
	return front, back, true
}

func splitLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func optionalCategory(v *string, field string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil, invalid(field + " must not be empty")
	}
	return &trimmed, nil
}

// check runs the struct validator and turns its field errors into one
// ErrInvalid message such as "invalid input: front is required".
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalid(err.Error())
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			msgs = append(msgs, fe.Field()+" is required")
		} else {
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return invalid(strings.Join(msgs, ", "))
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", content.ErrInvalid, msg)
}

// observe counts the call and logs unexpected backend failures. It returns
// err unchanged.
func observe(entity, op string, err error) error {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, content.ErrInvalid):
		outcome = "invalid"
	case errors.Is(err, content.ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, content.ErrWritesDisabled):
		outcome = "writes_disabled"
	default:
		outcome = "error"
		logger.Errorf("%s %s failed: %v", entity, op, err)
	}
	metrics.StoreOperations.WithLabelValues(entity, op, outcome).Inc()
	return err
}
