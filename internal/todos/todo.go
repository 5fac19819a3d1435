// Package todos is the small list API served behind the gate: a single
// "todos" entity with create, read, update and delete accessors.
package todos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTextLength is the longest todo text accepted, in runes
const MaxTextLength = 1000

var (
	// ErrNotFound is returned for an unknown todo ID
	ErrNotFound = errors.New("todo not found")

	// ErrInvalidText is returned for empty or overlong todo text
	ErrInvalidText = errors.New("invalid todo text")
)

// Todo is a single list item
type Todo struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch is a partial update; nil fields are left unchanged
type Patch struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Store persists todos
type Store interface {
	// List returns all todos, oldest first
	List(ctx context.Context) ([]Todo, error)
	Get(ctx context.Context, id string) (Todo, error)
	Create(ctx context.Context, text string) (Todo, error)
	Update(ctx context.Context, id string, patch Patch) (Todo, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// normalizeText trims surrounding whitespace and enforces length limits
func normalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: text is empty", ErrInvalidText)
	}
	if n := utf8.RuneCountInString(text); n > MaxTextLength {
		return "", fmt.Errorf("%w: %d characters exceeds limit of %d", ErrInvalidText, n, MaxTextLength)
	}
	return text, nil
}

// apply returns t with the patch applied, validating any new text
func (p Patch) apply(t Todo, now time.Time) (Todo, error) {
	if p.Text != nil {
		text, err := normalizeText(*p.Text)
		if err != nil {
			return Todo{}, err
		}
		t.Text = text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = now
	return t, nil
}
