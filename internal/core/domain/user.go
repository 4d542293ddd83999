package domain

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUsername    = errors.New("invalid username (3-32 chars: a-z, 0-9, '_', '.', '-')")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrInvalidProfile     = errors.New("invalid profile data")
	ErrProfileIncomplete  = errors.New("profile is missing weight or height")
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	MinPasswordLen = 8
	MaxAge         = 150
	MaxWeightKg    = 700
	// Heights above this are taken as centimeters.
	heightCmThreshold = 10
)

type User struct {
	ID            string    `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	Age           *int      `json:"age,omitempty" db:"age"`
	WeightKg      *float64  `json:"weightKg,omitempty" db:"weight_kg"`
	HeightM       *float64  `json:"heightM,omitempty" db:"height_m"`
	Gender        string    `json:"gender,omitempty" db:"gender"`
	CurrentStreak int       `json:"currentStreak" db:"current_streak"`
	LongestStreak int       `json:"longestStreak" db:"longest_streak"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// ProfileInput carries optional profile fields; nil means "leave unchanged".
type ProfileInput struct {
	Age      *int
	WeightKg *float64
	HeightM  *float64
	Gender   *string
}

// NormalizeUsername is the stored form of a username: trimmed and lower case.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func NewUser(id, username string) (*User, error) {
	username = NormalizeUsername(username)

	if !usernameRegex.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	now := time.Now().UTC()
	return &User{
		ID:        id,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) SetPassword(plainPassword string) error {
	if utf8.RuneCountInString(plainPassword) < MinPasswordLen {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) CheckPassword(plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plainPassword))
}

// UpdateProfile validates every provided field before applying any of them.
func (u *User) UpdateProfile(in ProfileInput) error {
	if in.Age != nil && (*in.Age < 0 || *in.Age > MaxAge) {
		return ErrInvalidProfile
	}
	if in.WeightKg != nil && !validPositive(*in.WeightKg, MaxWeightKg) {
		return ErrInvalidProfile
	}
	if in.HeightM != nil && !validPositive(*in.HeightM, math.MaxFloat64) {
		return ErrInvalidProfile
	}

	var gender string
	if in.Gender != nil {
		g, ok := normalizeGender(*in.Gender)
		if !ok {
			return ErrInvalidProfile
		}
		gender = g
	}

	if in.Age != nil {
		age := *in.Age
		u.Age = &age
	}
	if in.WeightKg != nil {
		w := *in.WeightKg
		u.WeightKg = &w
	}
	if in.HeightM != nil {
		h := *in.HeightM
		u.HeightM = &h
	}
	if in.Gender != nil {
		u.Gender = gender
	}

	u.UpdatedAt = time.Now().UTC()
	return nil
}

// BMI is weight / height², rounded to one decimal.
func (u *User) BMI() (float64, error) {
	if u.WeightKg == nil || u.HeightM == nil || *u.HeightM <= 0 || *u.WeightKg <= 0 {
		return 0, ErrProfileIncomplete
	}

	h := *u.HeightM
	if h > heightCmThreshold {
		h = h / 100
	}

	bmi := *u.WeightKg / (h * h)
	return math.Round(bmi*10) / 10, nil
}

func (u *User) UpdateStreak(current, longest int) {
	u.CurrentStreak = current
	if longest < current {
		longest = current
	}
	u.LongestStreak = longest
	u.UpdatedAt = time.Now().UTC()
}

func validPositive(v, max float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 && v <= max
}

func normalizeGender(g string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "":
		return "", true
	case GenderMale, "m":
		return GenderMale, true
	case GenderFemale, "f":
		return GenderFemale, true
	case GenderOther:
		return GenderOther, true
	}
	return "", false
}
