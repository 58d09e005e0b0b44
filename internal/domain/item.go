package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ItemKind distinguishes the two study modes an item can belong to.
type ItemKind string

// Possible item kinds.
const (
	ItemKindLesson ItemKind = "lesson"
	ItemKindQuiz   ItemKind = "quiz"
)

// Common validation errors for Item
var (
	ErrEmptyItemTitle      = errors.New("item title cannot be empty")
	ErrInvalidItemKind     = errors.New("invalid item kind")
	ErrQuizMissingChoices  = errors.New("quiz item must have at least two choices")
	ErrQuizBadCorrectIndex = errors.New("quiz correct index out of range")
)

// Item is a single learning item: either a lesson card the user rates
// themselves on, or a quiz question with a fixed correct answer.
type Item struct {
	ID           uuid.UUID `json:"id"`
	Kind         ItemKind  `json:"kind"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Choices      []string  `json:"choices,omitempty"`
	CorrectIndex int       `json:"correct_index,omitempty"`
	Explanation  string    `json:"explanation,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewItem creates a lesson item with the given title and content.
func NewItem(kind ItemKind, title, content string) (*Item, error) {
	now := time.Now().UTC()
	item := &Item{
		ID:        uuid.New(),
		Kind:      kind,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the Item has valid data.
// Returns an error if any field fails validation.
func (i *Item) Validate() error {
	if i.Title == "" {
		return ErrEmptyItemTitle
	}

	switch i.Kind {
	case ItemKindLesson:
		// Lessons carry only title and content.
	case ItemKindQuiz:
		if len(i.Choices) < 2 {
			return ErrQuizMissingChoices
		}
		if i.CorrectIndex < 0 || i.CorrectIndex >= len(i.Choices) {
			return ErrQuizBadCorrectIndex
		}
	default:
		return ErrInvalidItemKind
	}

	return nil
}
