package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ibquestionbank/questionbank/internal/content"
)

// timeLayout is lexically sortable and matches SQLite's CURRENT_TIMESTAMP
// prefix, so rows written by other tools order correctly next to ours.
const timeLayout = "2006-01-02 15:04:05.000000"

// SQLRepo implements Repository on any SQLite-dialect database/sql handle:
// the embedded modernc driver and the hosted libsql driver share it.
type SQLRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLRepo wraps db and ensures the schema exists. The repo owns db and
// closes it on Close.
func NewSQLRepo(ctx context.Context, db *sql.DB) (*SQLRepo, error) {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return &SQLRepo{db: db, now: time.Now}, nil
}

func (r *SQLRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLRepo) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLRepo) ListQuestions(ctx context.Context, paperType string) ([]content.Question, error) {
	query := `SELECT id, paper_type, content, created_at FROM questions`
	var args []any
	if paperType != "" {
		query += ` WHERE paper_type = ?`
		args = append(args, paperType)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	out := []content.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}
	return out, nil
}

func (r *SQLRepo) RandomQuestion(ctx context.Context, paperType string) (*content.Question, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, paper_type, content, created_at
		FROM questions WHERE paper_type = ?
		ORDER BY RANDOM() LIMIT 1
	`, paperType)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return q, err
}

func (r *SQLRepo) CreateQuestion(ctx context.Context, q *content.Question) (int64, error) {
	createdAt := r.now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO questions (paper_type, content, created_at)
		VALUES (?, ?, ?)
	`, q.PaperType, q.Content, createdAt.Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to insert question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for question: %w", err)
	}
	q.ID = id
	q.CreatedAt = createdAt
	return id, nil
}

func (r *SQLRepo) UpdateQuestion(ctx context.Context, id int64, text string, paperType *string) error {
	var (
		res sql.Result
		err error
	)
	if paperType != nil {
		res, err = r.db.ExecContext(ctx, `UPDATE questions SET content = ?, paper_type = ? WHERE id = ?`, text, *paperType, id)
	} else {
		res, err = r.db.ExecContext(ctx, `UPDATE questions SET content = ? WHERE id = ?`, text, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update question %d: %w", id, err)
	}
	return requireAffected(res, id)
}

func (r *SQLRepo) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question %d: %w", id, err)
	}
	return requireAffected(res, id)
}

func (r *SQLRepo) ListFlashcards(ctx context.Context, cardType string) ([]content.Flashcard, error) {
	query := `SELECT id, type, front, back, created_at FROM flashcards`
	var args []any
	if cardType != "" {
		query += ` WHERE type = ?`
		args = append(args, cardType)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list flashcards: %w", err)
	}
	defer rows.Close()

	out := []content.Flashcard{}
	for rows.Next() {
		f, err := scanFlashcard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flashcards: %w", err)
	}
	return out, nil
}

func (r *SQLRepo) RandomFlashcard(ctx context.Context, cardType string) (*content.Flashcard, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, type, front, back, created_at
		FROM flashcards WHERE type = ?
		ORDER BY RANDOM() LIMIT 1
	`, cardType)
	f, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

func (r *SQLRepo) CreateFlashcard(ctx context.Context, f *content.Flashcard) (int64, error) {
	createdAt := r.now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO flashcards (type, front, back, created_at)
		VALUES (?, ?, ?, ?)
	`, f.Type, f.Front, f.Back, createdAt.Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to insert flashcard: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for flashcard: %w", err)
	}
	f.ID = id
	f.CreatedAt = createdAt
	return id, nil
}

func (r *SQLRepo) UpdateFlashcard(ctx context.Context, id int64, front, back string, cardType *string) error {
	var (
		res sql.Result
		err error
	)
	if cardType != nil {
		res, err = r.db.ExecContext(ctx, `UPDATE flashcards SET front = ?, back = ?, type = ? WHERE id = ?`, front, back, *cardType, id)
	} else {
		res, err = r.db.ExecContext(ctx, `UPDATE flashcards SET front = ?, back = ? WHERE id = ?`, front, back, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update flashcard %d: %w", id, err)
	}
	return requireAffected(res, id)
}

func (r *SQLRepo) DeleteFlashcard(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete flashcard %d: %w", id, err)
	}
	return requireAffected(res, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*content.Question, error) {
	var (
		q  content.Question
		ts sqlTime
	)
	if err := row.Scan(&q.ID, &q.PaperType, &q.Content, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan question row: %w", err)
	}
	q.CreatedAt = ts.Time
	return &q, nil
}

func scanFlashcard(row rowScanner) (*content.Flashcard, error) {
	var (
		f  content.Flashcard
		ts sqlTime
	)
	if err := row.Scan(&f.ID, &f.Type, &f.Front, &f.Back, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan flashcard row: %w", err)
	}
	f.CreatedAt = ts.Time
	return &f, nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for %d: %w", id, err)
	}
	if n == 0 {
		return content.ErrNotFound
	}
	return nil
}

// sqlTime accepts the timestamp representations the two drivers hand back:
// modernc parses DATETIME columns into time.Time, libsql returns text.
type sqlTime struct {
	Time time.Time
}

var sqlTimeLayouts = []string{
	timeLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
}

func (t *sqlTime) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = x.UTC()
		return nil
	case int64:
		t.Time = time.Unix(x, 0).UTC()
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	}
	return fmt.Errorf("unsupported timestamp type %T", v)
}

func (t *sqlTime) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range sqlTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}
