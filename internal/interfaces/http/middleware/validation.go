package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/cinezone/cinezone/internal/interfaces/http/dispatch"
	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/utils"
	"github.com/cinezone/cinezone/internal/shared/utils/jsonutil"
)

type registerRules struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,hasdigit"`
	FirstName string `json:"firstName" validate:"required,notblank,min=2"`
	LastName  string `json:"lastName" validate:"required,notblank,min=2"`
}

type loginRules struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type movieRules struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	ReleaseDate string `json:"releaseDate" validate:"omitempty,isodate"`
	Duration    *int   `json:"duration" validate:"omitempty,gte=1,lte=1000"`
	Trailer     string `json:"trailer" validate:"omitempty,url"`
	Status      string `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type categoryRules struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
	Slug string `json:"slug" validate:"omitempty,slug"`
}

type profileRules struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=2"`
	LastName  *string `json:"lastName" validate:"omitempty,min=2"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

type passwordRules struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,hasdigit"`
}

type movieIDBody struct {
	MovieID *int64 `json:"movieId" validate:"required,gte=1"`
}

type createNoteRules struct {
	MovieID *int64   `json:"movieId" validate:"required,gte=1"`
	Rating  *float64 `json:"rating" validate:"required,gte=0,lte=5"`
	Comment *string  `json:"comment" validate:"omitempty,max=1000"`
}

type updateNoteRules struct {
	Rating  *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Comment *string  `json:"comment" validate:"omitempty,max=1000"`
}

type idParam struct {
	ID *int64 `json:"id" validate:"required,gte=1"`
}

type movieIDParam struct {
	MovieID *int64 `json:"movieId" validate:"required,gte=1"`
}

type paginationRules struct {
	Page      *int     `json:"page" validate:"omitempty,gte=1"`
	Limit     *int     `json:"limit" validate:"omitempty,gte=1,lte=500"`
	MinRating *float64 `json:"minRating" validate:"omitempty,gte=0,lte=5"`
}

// ValidationRules returns the named rule sets routes refer to.
func ValidationRules() map[string]gin.HandlerFunc {
	return map[string]gin.HandlerFunc{
		"register":       Validate(Body[registerRules]()),
		"login":          Validate(Body[loginRules]()),
		"createMovie":    Validate(Body[movieRules]()),
		"updateMovie":    Validate(Params[idParam](), Body[movieRules]()),
		"movieId":        Validate(Params[idParam]()),
		"createCategory": Validate(Body[categoryRules]()),
		"updateCategory": Validate(Params[idParam](), Body[categoryRules]()),
		"categoryId":     Validate(Params[idParam]()),
		"updateProfile":  Validate(Body[profileRules]()),
		"updatePassword": Validate(Body[passwordRules]()),
		"userId":         Validate(Params[idParam]()),
		"watchlist":      Validate(Body[movieIDBody]()),
		"watchlistParam": Validate(Params[movieIDParam]()),
		"createNote":     Validate(Body[createNoteRules]()),
		"updateNote":     Validate(Params[idParam](), Body[updateNoteRules]()),
		"noteId":         Validate(Params[idParam]()),
		"pagination":     Validate(Query[paginationRules]()),
	}
}

// Check inspects one part of the request.
type Check func(c *gin.Context) error

// Validate runs checks in order and aborts with the first failure.
func Validate(checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, check := range checks {
			if err := check(c); err != nil {
				_ = c.Error(err)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// Body validates the request body against the tags of T.
func Body[T any]() Check {
	return func(c *gin.Context) error {
		obj, err := dispatch.Body(c)
		if err != nil {
			return err
		}
		return validateObject[T](obj)
	}
}

// Params validates path parameters against the tags of T.
func Params[T any]() Check {
	return func(c *gin.Context) error {
		obj := make(jsonutil.Object, len(c.Params))
		for _, p := range c.Params {
			obj[p.Key] = jsonutil.String(p.Value)
		}
		return validateObject[T](obj)
	}
}

// Query validates query string values against the tags of T.
func Query[T any]() Check {
	return func(c *gin.Context) error {
		return validateObject[T](jsonutil.FromValues(c.Request.URL.Query()))
	}
}

func validateObject[T any](obj jsonutil.Object) error {
	var v T
	if err := jsonutil.DecodeFields(obj, &v); err != nil {
		return errors.NewValidationError(constants.ErrMsgValidationFailed, err.Error())
	}
	return utils.ValidateStruct(&v)
}
