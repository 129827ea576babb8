// Package store persists leads captured during conversations: contact details
// visitors leave and questions the chatbot could not answer.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrQuestionRequired = errors.New("question is required")
)

// Contact is a visitor who left a way to get in touch.
type Contact struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UnknownQuestion is a question the chatbot could not answer from its context.
type UnknownQuestion struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Question  string    `json:"question"`
	CreatedAt time.Time `json:"created_at"`
}

// Recorder saves captured leads.
type Recorder interface {
	SaveContact(ctx context.Context, c Contact) (Contact, error)
	SaveUnknownQuestion(ctx context.Context, q UnknownQuestion) (UnknownQuestion, error)
}

// NopRecorder accepts leads without saving them.
type NopRecorder struct{}

func (NopRecorder) SaveContact(_ context.Context, c Contact) (Contact, error) {
	if strings.TrimSpace(c.Email) == "" {
		return Contact{}, ErrEmailRequired
	}
	return c, nil
}

func (NopRecorder) SaveUnknownQuestion(_ context.Context, q UnknownQuestion) (UnknownQuestion, error) {
	if strings.TrimSpace(q.Question) == "" {
		return UnknownQuestion{}, ErrQuestionRequired
	}
	return q, nil
}

// Store is the SQLite implementation of Recorder.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Open opens (creating if needed) the database at path and applies migrations.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		path,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db), nil
}

// New wraps an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveContact stores a contact and returns it with ID and CreatedAt set.
func (s *Store) SaveContact(ctx context.Context, c Contact) (Contact, error) {
	c.Email = strings.TrimSpace(c.Email)
	if c.Email == "" {
		return Contact{}, ErrEmailRequired
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Notes = strings.TrimSpace(c.Notes)
	c.CreatedAt = s.now().UTC()

	query, args, err := qb.Insert("contacts").
		Columns("session_id", "email", "name", "notes", "created_at").
		Values(c.SessionID, c.Email, c.Name, c.Notes, c.CreatedAt.Format(time.RFC3339Nano)).
		ToSql()
	if err != nil {
		return Contact{}, fmt.Errorf("build insert contact: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return Contact{}, fmt.Errorf("insert contact: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return Contact{}, fmt.Errorf("contact id: %w", err)
	}
	return c, nil
}

// SaveUnknownQuestion stores a question and returns it with ID and CreatedAt set.
func (s *Store) SaveUnknownQuestion(ctx context.Context, q UnknownQuestion) (UnknownQuestion, error) {
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		return UnknownQuestion{}, ErrQuestionRequired
	}
	q.CreatedAt = s.now().UTC()

	query, args, err := qb.Insert("unknown_questions").
		Columns("session_id", "question", "created_at").
		Values(q.SessionID, q.Question, q.CreatedAt.Format(time.RFC3339Nano)).
		ToSql()
	if err != nil {
		return UnknownQuestion{}, fmt.Errorf("build insert question: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return UnknownQuestion{}, fmt.Errorf("insert question: %w", err)
	}
	if q.ID, err = res.LastInsertId(); err != nil {
		return UnknownQuestion{}, fmt.Errorf("question id: %w", err)
	}
	return q, nil
}

// ListContacts returns the newest contacts first. limit <= 0 returns all.
func (s *Store) ListContacts(ctx context.Context, limit int) ([]Contact, error) {
	builder := qb.Select("id", "session_id", "email", "name", "notes", "created_at").
		From("contacts").
		OrderBy("id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list contacts: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []Contact{}
	for rows.Next() {
		var c Contact
		var createdAt string
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Email, &c.Name, &c.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// ListUnknownQuestions returns the newest questions first. limit <= 0 returns all.
func (s *Store) ListUnknownQuestions(ctx context.Context, limit int) ([]UnknownQuestion, error) {
	builder := qb.Select("id", "session_id", "question", "created_at").
		From("unknown_questions").
		OrderBy("id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list questions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := []UnknownQuestion{}
	for rows.Next() {
		var q UnknownQuestion
		var createdAt string
		if err := rows.Scan(&q.ID, &q.SessionID, &q.Question, &createdAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if q.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", s, err)
	}
	return t, nil
}
