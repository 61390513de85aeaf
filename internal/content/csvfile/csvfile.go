// Package csvfile reads and writes the per-category CSV files used by the
// read-only store and by the import/export commands.
//
// Question files need a header row and a "Content" column (matched
// case-insensitively); when no such column exists the first column is used.
// Flashcard files need "Front" and "Back" columns. Rows without usable text
// are skipped. Identifiers are 1-based positions among the kept rows, so they
// change whenever the file is edited.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ibquestionbank/questionbank/internal/content"
)

// ParseQuestions reads question rows for the given paper.
func ParseQuestions(r io.Reader, paperType string) ([]content.Question, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	col := columnIndex(header, "content")
	if col < 0 {
		col = 0
	}
	out := []content.Question{}
	for _, row := range rows {
		text := field(row, col)
		if text == "" {
			continue
		}
		out = append(out, content.Question{
			ID:        int64(len(out) + 1),
			PaperType: paperType,
			Content:   text,
		})
	}
	return out, nil
}

// ParseFlashcards reads flashcard rows for the given set.
func ParseFlashcards(r io.Reader, cardType string) ([]content.Flashcard, error) {
	header, rows, err := readAll(r)
	if err != nil {
		return nil, err
	}
	front, back := columnIndex(header, "front"), columnIndex(header, "back")
	if len(header) > 0 && (front < 0 || back < 0) {
		return nil, fmt.Errorf("flashcard file needs Front and Back columns, got %q", header)
	}
	out := []content.Flashcard{}
	for _, row := range rows {
		f, b := field(row, front), field(row, back)
		if f == "" || b == "" {
			continue
		}
		out = append(out, content.Flashcard{
			ID:    int64(len(out) + 1),
			Type:  cardType,
			Front: f,
			Back:  b,
		})
	}
	return out, nil
}

// WriteQuestions writes questions in the layout ParseQuestions accepts.
func WriteQuestions(w io.Writer, questions []content.Question) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Content"}); err != nil {
		return err
	}
	for _, q := range questions {
		if err := cw.Write([]string{q.Content}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFlashcards writes flashcards in the layout ParseFlashcards accepts.
func WriteFlashcards(w io.Writer, cards []content.Flashcard) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Front", "Back"}); err != nil {
		return err
	}
	for _, f := range cards {
		if err := cw.Write([]string{f.Front, f.Back}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readAll(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv rows: %w", err)
	}
	return header, rows, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
