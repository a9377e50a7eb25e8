package mappers

import (
	"github.com/cinezone/cinezone/internal/domain/note"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/mapper"
)

type NoteMapper interface {
	ToEntity(model *models.RatingModel) *note.Note
	ToModel(entity *note.Note) *models.RatingModel
	ToEntities(models []*models.RatingModel) []*note.Note
}

type NoteMapperImpl struct{}

func NewNoteMapper() NoteMapper {
	return &NoteMapperImpl{}
}

func (m *NoteMapperImpl) ToEntity(model *models.RatingModel) *note.Note {
	if model == nil {
		return nil
	}
	return note.ReconstructNote(model.ID, model.UserID, model.MovieID, model.Rating, model.Comment, model.CreatedAt, model.UpdatedAt)
}

func (m *NoteMapperImpl) ToModel(entity *note.Note) *models.RatingModel {
	if entity == nil {
		return nil
	}
	return &models.RatingModel{
		ID:        entity.ID(),
		UserID:    entity.UserID(),
		MovieID:   entity.MovieID(),
		Rating:    entity.Rating(),
		Comment:   entity.Comment(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

func (m *NoteMapperImpl) ToEntities(list []*models.RatingModel) []*note.Note {
	return mapper.MapSliceOrEmpty(list, m.ToEntity)
}
