package mappers

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gorm.io/datatypes"

	"github.com/cinezone/cinezone/internal/domain/history"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/mapper"
)

type HistoryMapper interface {
	ToEntity(model *models.HistoryModel) (*history.Entry, error)
	ToModel(entity *history.Entry) (*models.HistoryModel, error)
	ToEntities(models []*models.HistoryModel) ([]*history.Entry, error)
}

type HistoryMapperImpl struct{}

func NewHistoryMapper() HistoryMapper {
	return &HistoryMapperImpl{}
}

func (m *HistoryMapperImpl) ToEntity(model *models.HistoryModel) (*history.Entry, error) {
	if model == nil {
		return nil, nil
	}

	metadata := map[string]any{}
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to decode history metadata %d: %w", model.ID, err)
		}
	}

	return history.ReconstructEntry(
		model.ID,
		model.UserID,
		model.MovieID,
		history.Action(model.Action),
		metadata,
		model.CreatedAt,
	), nil
}

func (m *HistoryMapperImpl) ToModel(entity *history.Entry) (*models.HistoryModel, error) {
	if entity == nil {
		return nil, nil
	}

	raw, err := json.Marshal(entity.Metadata())
	if err != nil {
		return nil, fmt.Errorf("failed to encode history metadata: %w", err)
	}

	return &models.HistoryModel{
		ID:        entity.ID(),
		UserID:    entity.UserID(),
		MovieID:   entity.MovieID(),
		Action:    string(entity.Action()),
		Metadata:  datatypes.JSON(raw),
		CreatedAt: entity.CreatedAt(),
	}, nil
}

func (m *HistoryMapperImpl) ToEntities(list []*models.HistoryModel) ([]*history.Entry, error) {
	if list == nil {
		return []*history.Entry{}, nil
	}
	return mapper.MapSliceWithError(list, m.ToEntity)
}
