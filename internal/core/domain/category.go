package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryExists      = errors.New("category already exists")
	ErrInvalidCategoryName = errors.New("invalid category name (1-64 chars)")
)

const MaxCategoryNameLen = 64

// Category groups free-form CustomItems under a user-chosen name.
type Category struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

func NewCategory(userID, name string) (*Category, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidRecord
	}

	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxCategoryNameLen {
		return nil, ErrInvalidCategoryName
	}

	return &Category{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}, nil
}
