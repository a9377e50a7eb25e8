package mappers

import (
	"github.com/cinezone/cinezone/internal/domain/watchlist"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/mapper"
)

type WatchlistMapper interface {
	ToEntity(model *models.WatchlistModel) *watchlist.Entry
	ToModel(entity *watchlist.Entry) *models.WatchlistModel
	ToEntities(models []*models.WatchlistModel) []*watchlist.Entry
}

type WatchlistMapperImpl struct{}

func NewWatchlistMapper() WatchlistMapper {
	return &WatchlistMapperImpl{}
}

func (m *WatchlistMapperImpl) ToEntity(model *models.WatchlistModel) *watchlist.Entry {
	if model == nil {
		return nil
	}
	return watchlist.ReconstructEntry(model.ID, model.UserID, model.MovieID, model.CreatedAt)
}

func (m *WatchlistMapperImpl) ToModel(entity *watchlist.Entry) *models.WatchlistModel {
	if entity == nil {
		return nil
	}
	return &models.WatchlistModel{
		ID:        entity.ID(),
		UserID:    entity.UserID(),
		MovieID:   entity.MovieID(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.CreatedAt(),
	}
}

func (m *WatchlistMapperImpl) ToEntities(list []*models.WatchlistModel) []*watchlist.Entry {
	return mapper.MapSliceOrEmpty(list, m.ToEntity)
}
