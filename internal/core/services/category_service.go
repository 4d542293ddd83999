package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
)

type CategoryService struct {
	categories domain.CategoryRepository
	items      domain.CustomItemRepository
}

func NewCategoryService(categories domain.CategoryRepository, items domain.CustomItemRepository) *CategoryService {
	return &CategoryService{
		categories: categories,
		items:      items,
	}
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]*domain.Category, error) {
	return s.categories.ListByUserID(ctx, userID)
}

func (s *CategoryService) Create(ctx context.Context, userID, name string) (*domain.Category, error) {
	category, err := domain.NewCategory(userID, name)
	if err != nil {
		return nil, err
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("category service: create failed: %w", err)
	}

	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id, userID string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return category, nil
}

// Delete removes the category together with its items.
func (s *CategoryService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}

	items, err := s.ListItems(ctx, id, userID)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := s.items.Delete(ctx, item.ID, userID); err != nil {
			return fmt.Errorf("category service: failed to delete item %s: %w", item.ID, err)
		}
	}

	return s.categories.Delete(ctx, id, userID)
}

func (s *CategoryService) ListItems(ctx context.Context, categoryID, userID string) ([]*domain.CustomItem, error) {
	if _, err := s.Get(ctx, categoryID, userID); err != nil {
		return nil, err
	}

	all, err := s.items.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return filterByCategory(all, categoryID), nil
}

func (s *CategoryService) ListItemsInRange(ctx context.Context, categoryID, userID string, from, to time.Time) ([]*domain.CustomItem, error) {
	if _, err := s.Get(ctx, categoryID, userID); err != nil {
		return nil, err
	}

	all, err := s.items.ListByUserIDInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	return filterByCategory(all, categoryID), nil
}

func (s *CategoryService) AddItem(ctx context.Context, categoryID, userID string, at time.Time, note string) (*domain.CustomItem, error) {
	if _, err := s.Get(ctx, categoryID, userID); err != nil {
		return nil, err
	}

	item, err := domain.NewCustomItem(userID, categoryID, at, note)
	if err != nil {
		return nil, err
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("category service: add item failed: %w", err)
	}

	return item, nil
}

func (s *CategoryService) UpdateItem(ctx context.Context, categoryID, itemID, userID string, at *time.Time, note *string) (*domain.CustomItem, error) {
	item, err := s.getItem(ctx, categoryID, itemID, userID)
	if err != nil {
		return nil, err
	}

	if err := item.Patch(at, note); err != nil {
		return nil, err
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *CategoryService) DeleteItem(ctx context.Context, categoryID, itemID, userID string) error {
	if _, err := s.getItem(ctx, categoryID, itemID, userID); err != nil {
		return err
	}

	return s.items.Delete(ctx, itemID, userID)
}

func (s *CategoryService) getItem(ctx context.Context, categoryID, itemID, userID string) (*domain.CustomItem, error) {
	if _, err := s.Get(ctx, categoryID, userID); err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	if item.CategoryID != categoryID {
		return nil, domain.ErrRecordNotFound
	}

	return item, nil
}

func filterByCategory(items []*domain.CustomItem, categoryID string) []*domain.CustomItem {
	out := make([]*domain.CustomItem, 0, len(items))
	for _, it := range items {
		if it.CategoryID == categoryID {
			out = append(out, it)
		}
	}
	return out
}
