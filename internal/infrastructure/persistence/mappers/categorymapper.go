package mappers

import (
	"github.com/cinezone/cinezone/internal/domain/category"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/mapper"
)

type CategoryMapper interface {
	ToEntity(model *models.CategoryModel) *category.Category
	ToModel(entity *category.Category) *models.CategoryModel
	ToEntities(models []*models.CategoryModel) []*category.Category
}

type CategoryMapperImpl struct{}

func NewCategoryMapper() CategoryMapper {
	return &CategoryMapperImpl{}
}

func (m *CategoryMapperImpl) ToEntity(model *models.CategoryModel) *category.Category {
	if model == nil {
		return nil
	}
	return category.ReconstructCategory(model.ID, model.Name, model.Slug, model.Description, model.CreatedAt, model.UpdatedAt)
}

func (m *CategoryMapperImpl) ToModel(entity *category.Category) *models.CategoryModel {
	if entity == nil {
		return nil
	}
	return &models.CategoryModel{
		ID:          entity.ID(),
		Name:        entity.Name(),
		Slug:        entity.Slug(),
		Description: entity.Description(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func (m *CategoryMapperImpl) ToEntities(list []*models.CategoryModel) []*category.Category {
	return mapper.MapSliceOrEmpty(list, m.ToEntity)
}
