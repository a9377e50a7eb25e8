package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 500

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"

	// gin context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
	ContextKeyUpload    = "uploaded_file"
	ContextKeyBody      = "request_body"

	TableUsers           = "users"
	TableMovies          = "movies"
	TableCategories      = "categories"
	TableMovieCategories = "movie_categories"
	TableRatings         = "ratings"
	TableWatchlists      = "watchlists"
	TableHistories       = "histories"

	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgRouteNotFound       = "Route not found"
	ErrMsgUnauthorized        = "Authentication required"
	ErrMsgForbidden           = "Access denied"
	ErrMsgValidationFailed    = "Validation failed"
)
