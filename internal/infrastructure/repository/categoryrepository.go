package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/domain/category"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/mappers"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/db"
	apperrors "github.com/cinezone/cinezone/internal/shared/errors"
)

type CategoryRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.CategoryMapper
}

func NewCategoryRepository(gdb *gorm.DB) category.Repository {
	return &CategoryRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewCategoryMapper(),
	}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, c *category.Category) error {
	model := r.mapper.ToModel(c)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("Category already exists")
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return c.SetID(model.ID)
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, c *category.Category) error {
	model := r.mapper.ToModel(c)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.CategoryModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"name":        model.Name,
			"slug":        model.Slug,
			"description": model.Description,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) {
			return apperrors.NewConflictError("Category already exists")
		}
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	return nil
}

func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("category_id = ?", id).Delete(&models.MovieCategoryModel{}).Error; err != nil {
		return fmt.Errorf("failed to detach category from movies: %w", err)
	}
	result := tx.Delete(&models.CategoryModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Category not found")
	}
	return nil
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, id uint) (*category.Category, error) {
	var model models.CategoryModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *CategoryRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*category.Category, error) {
	if len(ids) == 0 {
		return []*category.Category{}, nil
	}
	var list []*models.CategoryModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Order("name ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories by IDs: %w", err)
	}
	return r.mapper.ToEntities(list), nil
}

func (r *CategoryRepositoryImpl) List(ctx context.Context) ([]*category.Category, error) {
	var list []*models.CategoryModel
	if err := db.GetTxFromContext(ctx, r.db).Order("name ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return r.mapper.ToEntities(list), nil
}

func (r *CategoryRepositoryImpl) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	q := db.GetTxFromContext(ctx, r.db).Model(&models.CategoryModel{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category slug: %w", err)
	}
	return count > 0, nil
}
