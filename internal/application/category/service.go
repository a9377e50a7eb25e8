package category

import (
	"context"
	"fmt"

	domainCategory "github.com/cinezone/cinezone/internal/domain/category"
	"github.com/cinezone/cinezone/internal/shared/db"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
	"github.com/cinezone/cinezone/internal/shared/mapper"
)

const (
	msgCategoryNotFound = "Category not found"
	msgCategoryExists   = "Category already exists"
	msgCategoryDeleted  = "Category deleted successfully"
)

// TextSanitizer removes markup from user supplied text.
type TextSanitizer interface {
	StripTags(text string) string
}

type Service struct {
	tx           db.Transactor
	categoryRepo domainCategory.Repository
	sanitizer    TextSanitizer
	logger       logger.Interface
}

func NewService(tx db.Transactor, categoryRepo domainCategory.Repository, sanitizer TextSanitizer, log logger.Interface) *Service {
	return &Service{
		tx:           tx,
		categoryRepo: categoryRepo,
		sanitizer:    sanitizer,
		logger:       log,
	}
}

// List returns every category ordered by name.
func (s *Service) List(ctx context.Context) ([]*CategoryResponse, error) {
	list, err := s.categoryRepo.List(ctx)
	if err != nil {
		s.logger.Errorw("failed to list categories", "error", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return mapper.MapSliceOrEmpty(list, ToCategoryResponse), nil
}

func (s *Service) Get(ctx context.Context, id uint) (*CategoryResponse, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(c), nil
}

func (s *Service) Create(ctx context.Context, input CategoryInput) (*CategoryResponse, error) {
	if input.Name == nil {
		return nil, errors.NewValidationError("name is required")
	}
	c, err := domainCategory.NewCategory(s.clean(*input.Name), s.cleanPtr(input.Description))
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.ensureSlugFree(ctx, c.Slug(), 0); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Infow("category created", "category_id", c.ID(), "slug", c.Slug())
	return ToCategoryResponse(c), nil
}

// Update renames the category (deriving a new slug) when a name is given and
// replaces the description when one is given.
func (s *Service) Update(ctx context.Context, id uint, input CategoryInput) (*CategoryResponse, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		if err := c.Rename(s.clean(*input.Name)); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		if err := s.ensureSlugFree(ctx, c.Slug(), id); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		c.SetDescription(s.cleanPtr(input.Description))
	}

	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Infow("category updated", "category_id", id, "slug", c.Slug())
	return ToCategoryResponse(c), nil
}

// Delete detaches the category from its movies and removes it.
func (s *Service) Delete(ctx context.Context, id uint) (*MessageResponse, error) {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.categoryRepo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infow("category deleted", "category_id", id)
	return &MessageResponse{Message: msgCategoryDeleted}, nil
}

func (s *Service) get(ctx context.Context, id uint) (*domainCategory.Category, error) {
	c, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Errorw("failed to get category", "category_id", id, "error", err)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError(msgCategoryNotFound)
	}
	return c, nil
}

func (s *Service) ensureSlugFree(ctx context.Context, slug string, excludeID uint) error {
	taken, err := s.categoryRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check category slug: %w", err)
	}
	if taken {
		return errors.NewConflictError(msgCategoryExists)
	}
	return nil
}

func (s *Service) clean(text string) string {
	if s.sanitizer == nil {
		return text
	}
	return s.sanitizer.StripTags(text)
}

func (s *Service) cleanPtr(text *string) *string {
	if text == nil {
		return nil
	}
	clean := s.clean(*text)
	return &clean
}
