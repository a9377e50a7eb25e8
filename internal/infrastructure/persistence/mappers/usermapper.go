package mappers

import (
	"github.com/cinezone/cinezone/internal/domain/user"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/authorization"
	"github.com/cinezone/cinezone/internal/shared/mapper"
)

type UserMapper interface {
	ToEntity(model *models.UserModel) *user.User
	ToModel(entity *user.User) *models.UserModel
	ToEntities(models []*models.UserModel) []*user.User
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(model *models.UserModel) *user.User {
	if model == nil {
		return nil
	}
	return user.ReconstructUser(
		model.ID,
		model.Email,
		model.PasswordHash,
		model.FirstName,
		model.LastName,
		authorization.UserRole(model.Role),
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	if entity == nil {
		return nil
	}
	return &models.UserModel{
		ID:           entity.ID(),
		Email:        entity.Email(),
		PasswordHash: entity.PasswordHash(),
		FirstName:    entity.FirstName(),
		LastName:     entity.LastName(),
		Role:         entity.Role().String(),
		IsActive:     entity.IsActive(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}

func (m *UserMapperImpl) ToEntities(list []*models.UserModel) []*user.User {
	return mapper.MapSliceOrEmpty(list, m.ToEntity)
}
