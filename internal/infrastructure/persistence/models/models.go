package models

// All lists every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&CategoryModel{},
		&MovieModel{},
		&MovieCategoryModel{},
		&RatingModel{},
		&WatchlistModel{},
		&HistoryModel{},
	}
}
