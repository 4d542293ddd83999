package repository

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

// SeedFile is the YAML layout accepted by Seed.
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

type SeedUser struct {
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	Age        *int     `yaml:"age"`
	WeightKg   *float64 `yaml:"weight_kg"`
	HeightM    *float64 `yaml:"height_m"`
	Gender     *string  `yaml:"gender"`
	Categories []string `yaml:"categories"`
}

// LoadSeed reads and decodes a seed file.
func LoadSeed(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("seed: parse %s: %w", path, err)
	}

	return &seed, nil
}

// Seed creates the users and their categories. Users that already exist are
// skipped, so seeding twice is harmless. It returns how many users were created.
func Seed(ctx context.Context, seed *SeedFile, users domain.UserRepository, categories domain.CategoryRepository) (int, error) {
	created := 0

	for _, su := range seed.Users {
		user, err := domain.NewUser(uuid.NewString(), su.Username)
		if err != nil {
			return created, fmt.Errorf("seed: user %q: %w", su.Username, err)
		}
		if err := user.SetPassword(su.Password); err != nil {
			return created, fmt.Errorf("seed: user %q: %w", su.Username, err)
		}
		if err := user.UpdateProfile(domain.ProfileInput{
			Age:      su.Age,
			WeightKg: su.WeightKg,
			HeightM:  su.HeightM,
			Gender:   su.Gender,
		}); err != nil {
			return created, fmt.Errorf("seed: user %q: %w", su.Username, err)
		}

		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrUsernameTaken) {
				continue
			}
			return created, fmt.Errorf("seed: user %q: %w", su.Username, err)
		}
		created++

		for _, name := range su.Categories {
			c, err := domain.NewCategory(user.ID, name)
			if err != nil {
				return created, fmt.Errorf("seed: category %q: %w", name, err)
			}
			if err := categories.Create(ctx, c); err != nil && !errors.Is(err, domain.ErrCategoryExists) {
				return created, fmt.Errorf("seed: category %q: %w", name, err)
			}
		}
	}

	return created, nil
}
