package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

var (
	_ domain.UserRepository     = (*InMemoryUserRepository)(nil)
	_ domain.WaterRepository    = (*InMemoryRecordRepository[domain.WaterRecord, *domain.WaterRecord])(nil)
	_ domain.CategoryRepository = (*InMemoryCategoryRepository)(nil)
)

// InMemoryUserRepository hands out copies, so callers never share a *User
// with the streak worker.
type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}

	stored := *user
	r.store[user.ID] = &stored
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *InMemoryUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}

	stored := *user
	stored.CurrentStreak = existing.CurrentStreak
	stored.LongestStreak = existing.LongestStreak
	r.store[user.ID] = &stored
	return nil
}

func (r *InMemoryUserRepository) UpdateStreak(ctx context.Context, userID string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[userID]
	if !ok {
		return domain.ErrUserNotFound
	}

	stored := *existing
	stored.UpdateStreak(current, longest)
	r.store[userID] = &stored
	return nil
}

// InMemoryRecordRepository keeps one record kind in a map keyed by ID. It
// stores values and hands out copies, so a record is only changed by Update.
type InMemoryRecordRepository[T any, P interface {
	*T
	domain.Record
}] struct {
	store map[string]T

	mu sync.RWMutex
}

func NewInMemoryRecordRepository[T any, P interface {
	*T
	domain.Record
}]() *InMemoryRecordRepository[T, P] {
	return &InMemoryRecordRepository[T, P]{
		store: make(map[string]T),
	}
}

func (r *InMemoryRecordRepository[T, P]) Create(ctx context.Context, record P) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[record.RecordID()]; exists {
		return domain.ErrInvalidRecord
	}

	r.store[record.RecordID()] = *record
	return nil
}

func (r *InMemoryRecordRepository[T, P]) GetByID(ctx context.Context, id string) (P, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.store[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return P(&record), nil
}

func (r *InMemoryRecordRepository[T, P]) ListByUserID(ctx context.Context, userID string) ([]P, error) {
	return r.filter(userID, func(time.Time) bool { return true }), nil
}

func (r *InMemoryRecordRepository[T, P]) ListByUserIDInRange(ctx context.Context, userID string, from, to time.Time) ([]P, error) {
	return r.filter(userID, func(t time.Time) bool {
		return !t.Before(from) && t.Before(to)
	}), nil
}

func (r *InMemoryRecordRepository[T, P]) filter(userID string, keep func(time.Time) bool) []P {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := []P{}
	for _, stored := range r.store {
		rec := stored
		p := P(&rec)
		if p.OwnerID() == userID && keep(p.Timestamp()) {
			records = append(records, p)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		ti, tj := records[i].Timestamp(), records[j].Timestamp()
		if ti.Equal(tj) {
			return records[i].RecordID() < records[j].RecordID()
		}
		return ti.After(tj)
	})

	return records
}

func (r *InMemoryRecordRepository[T, P]) Update(ctx context.Context, record P) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[record.RecordID()]
	if !ok || P(&existing).OwnerID() != record.OwnerID() {
		return domain.ErrRecordNotFound
	}

	r.store[record.RecordID()] = *record
	return nil
}

func (r *InMemoryRecordRepository[T, P]) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[id]
	if !ok || P(&existing).OwnerID() != userID {
		return domain.ErrRecordNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryCategoryRepository struct {
	store map[string]*domain.Category

	mu sync.RWMutex
}

func NewInMemoryCategoryRepository() *InMemoryCategoryRepository {
	return &InMemoryCategoryRepository{
		store: make(map[string]*domain.Category),
	}
}

func (r *InMemoryCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.store {
		if existing.UserID == c.UserID && strings.EqualFold(existing.Name, c.Name) {
			return domain.ErrCategoryExists
		}
	}

	stored := *c
	r.store[c.ID] = &stored
	return nil
}

func (r *InMemoryCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.store[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	out := *c
	return &out, nil
}

func (r *InMemoryCategoryRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := []*domain.Category{}
	for _, c := range r.store {
		if c.UserID == userID {
			out := *c
			categories = append(categories, &out)
		}
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	return categories, nil
}

func (r *InMemoryCategoryRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.store[id]
	if !ok || c.UserID != userID {
		return domain.ErrCategoryNotFound
	}

	delete(r.store, id)
	return nil
}
