package domain

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrInvalidRecord    = errors.New("invalid record data")
	ErrInvalidIntensity = errors.New("invalid intensity (must be low, medium, moderate or high)")
	ErrNoteTooLong      = errors.New("note is too long (max 1000 chars)")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrUnknownMetric    = errors.New("unknown metric (must be water, sleep or activity)")
)

const (
	IntensityLow      = "low"
	IntensityMedium   = "medium"
	IntensityModerate = "moderate"
	IntensityHigh     = "high"

	DateLayout  = "2006-01-02"
	MaxNoteLen  = 1000
	MaxSleepHrs = 24
)

// Record is anything a user logs at a point in time.
type Record interface {
	RecordID() string
	OwnerID() string
	Timestamp() time.Time
}

type WaterRecord struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Datetime  time.Time `json:"datetime" db:"datetime"`
	AmountMl  int       `json:"amountMl" db:"amount_ml"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func NewWaterRecord(userID string, at time.Time, amountMl int) (*WaterRecord, error) {
	if err := validateBase(userID, at); err != nil {
		return nil, err
	}
	if amountMl < 0 {
		return nil, ErrInvalidRecord
	}

	now := time.Now().UTC()
	return &WaterRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Datetime:  at.UTC(),
		AmountMl:  amountMl,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (w *WaterRecord) RecordID() string     { return w.ID }
func (w *WaterRecord) OwnerID() string      { return w.UserID }
func (w *WaterRecord) Timestamp() time.Time { return w.Datetime }

// Patch applies the non-nil fields.
func (w *WaterRecord) Patch(at *time.Time, amountMl *int) error {
	if at != nil && at.IsZero() {
		return ErrInvalidRecord
	}
	if amountMl != nil && *amountMl < 0 {
		return ErrInvalidRecord
	}

	if at != nil {
		w.Datetime = at.UTC()
	}
	if amountMl != nil {
		w.AmountMl = *amountMl
	}
	w.UpdatedAt = time.Now().UTC()
	return nil
}

func (w WaterRecord) MarshalJSON() ([]byte, error) {
	type alias WaterRecord
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias(w), w.Datetime.Format(DateLayout)})
}

type SleepRecord struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Datetime  time.Time `json:"datetime" db:"datetime"`
	Hours     float64   `json:"hours" db:"hours"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func NewSleepRecord(userID string, at time.Time, hours float64) (*SleepRecord, error) {
	if err := validateBase(userID, at); err != nil {
		return nil, err
	}
	if !validHours(hours) {
		return nil, ErrInvalidRecord
	}

	now := time.Now().UTC()
	return &SleepRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Datetime:  at.UTC(),
		Hours:     hours,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SleepRecord) RecordID() string     { return s.ID }
func (s *SleepRecord) OwnerID() string      { return s.UserID }
func (s *SleepRecord) Timestamp() time.Time { return s.Datetime }

func (s *SleepRecord) Patch(at *time.Time, hours *float64) error {
	if at != nil && at.IsZero() {
		return ErrInvalidRecord
	}
	if hours != nil && !validHours(*hours) {
		return ErrInvalidRecord
	}

	if at != nil {
		s.Datetime = at.UTC()
	}
	if hours != nil {
		s.Hours = *hours
	}
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (s SleepRecord) MarshalJSON() ([]byte, error) {
	type alias SleepRecord
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias(s), s.Datetime.Format(DateLayout)})
}

type ActivityRecord struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Datetime  time.Time `json:"datetime" db:"datetime"`
	Minutes   int       `json:"minutes" db:"minutes"`
	Intensity string    `json:"intensity" db:"intensity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func NewActivityRecord(userID string, at time.Time, minutes int, intensity string) (*ActivityRecord, error) {
	if err := validateBase(userID, at); err != nil {
		return nil, err
	}
	if minutes < 0 {
		return nil, ErrInvalidRecord
	}

	level, err := NormalizeIntensity(intensity)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &ActivityRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Datetime:  at.UTC(),
		Minutes:   minutes,
		Intensity: level,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (a *ActivityRecord) RecordID() string     { return a.ID }
func (a *ActivityRecord) OwnerID() string      { return a.UserID }
func (a *ActivityRecord) Timestamp() time.Time { return a.Datetime }

func (a *ActivityRecord) Patch(at *time.Time, minutes *int, intensity *string) error {
	if at != nil && at.IsZero() {
		return ErrInvalidRecord
	}
	if minutes != nil && *minutes < 0 {
		return ErrInvalidRecord
	}

	level := a.Intensity
	if intensity != nil {
		var err error
		if level, err = NormalizeIntensity(*intensity); err != nil {
			return err
		}
	}

	if at != nil {
		a.Datetime = at.UTC()
	}
	if minutes != nil {
		a.Minutes = *minutes
	}
	a.Intensity = level
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (a ActivityRecord) MarshalJSON() ([]byte, error) {
	type alias ActivityRecord
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias(a), a.Datetime.Format(DateLayout)})
}

// NormalizeIntensity lowercases the level; empty means medium.
func NormalizeIntensity(level string) (string, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "":
		return IntensityMedium, nil
	case IntensityLow, IntensityMedium, IntensityModerate, IntensityHigh:
		return level, nil
	}
	return "", ErrInvalidIntensity
}

type CustomItem struct {
	ID         string    `json:"id" db:"id"`
	CategoryID string    `json:"categoryId" db:"category_id"`
	UserID     string    `json:"userId" db:"user_id"`
	Datetime   time.Time `json:"datetime" db:"datetime"`
	Note       string    `json:"note" db:"note"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

func NewCustomItem(userID, categoryID string, at time.Time, note string) (*CustomItem, error) {
	if err := validateBase(userID, at); err != nil {
		return nil, err
	}
	if strings.TrimSpace(categoryID) == "" {
		return nil, ErrInvalidRecord
	}

	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) > MaxNoteLen {
		return nil, ErrNoteTooLong
	}

	now := time.Now().UTC()
	return &CustomItem{
		ID:         uuid.NewString(),
		CategoryID: categoryID,
		UserID:     userID,
		Datetime:   at.UTC(),
		Note:       note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (c *CustomItem) RecordID() string     { return c.ID }
func (c *CustomItem) OwnerID() string      { return c.UserID }
func (c *CustomItem) Timestamp() time.Time { return c.Datetime }

func (c *CustomItem) Patch(at *time.Time, note *string) error {
	if at != nil && at.IsZero() {
		return ErrInvalidRecord
	}

	var cleanNote string
	if note != nil {
		cleanNote = strings.TrimSpace(*note)
		if utf8.RuneCountInString(cleanNote) > MaxNoteLen {
			return ErrNoteTooLong
		}
	}

	if at != nil {
		c.Datetime = at.UTC()
	}
	if note != nil {
		c.Note = cleanNote
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func validateBase(userID string, at time.Time) error {
	if strings.TrimSpace(userID) == "" || at.IsZero() {
		return ErrInvalidRecord
	}
	return nil
}

func validHours(h float64) bool {
	return !math.IsNaN(h) && h >= 0 && h <= MaxSleepHrs
}
